//go:build !linux && !darwin

package device

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/sirupsen/logrus"
)

func readIdentity() Identity {
	info, err := host.Info()
	if err != nil || info == nil {
		logrus.WithError(err).Debug("failed to read host info")
		return Identity{}
	}
	return Identity{
		Model: info.Hostname,
	}
}

func readOSVersion() OSVersion {
	v := OSVersion{PlatformName: runtime.GOOS}

	info, err := host.Info()
	if err != nil || info == nil {
		logrus.WithError(err).Debug("failed to read host info")
		return v
	}
	if info.Platform != "" {
		v.PlatformName = info.Platform
	}
	v.VersionString = info.PlatformVersion
	return v
}
