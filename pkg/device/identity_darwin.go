package device

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func readIdentity() Identity {
	// hw.machine is the product identifier on iOS (e.g. iPhone15,2) but only
	// the architecture on macOS, where hw.model holds it (e.g. Mac14,2).
	key := "hw.model"
	if runtime.GOOS == "ios" {
		key = "hw.machine"
	}

	return Identity{
		Manufacturer: "Apple",
		HardwareID:   sysctl(key),
	}
}

func readOSVersion() OSVersion {
	name := "macOS"
	if runtime.GOOS == "ios" {
		name = "iOS"
	}

	return OSVersion{
		PlatformName:  name,
		VersionString: sysctl("kern.osproductversion"),
	}
}

func sysctl(name string) string {
	v, err := unix.Sysctl(name)
	if err != nil {
		logrus.WithError(err).WithField("name", name).Debug("sysctl failed")
		return ""
	}
	return v
}
