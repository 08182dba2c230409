package device

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/sirupsen/logrus"
)

// Android builds use this file too; there identity and version come from
// system properties instead of DMI and host info.

func readIdentity() Identity {
	if runtime.GOOS == "android" {
		return Identity{
			Manufacturer: getprop("ro.product.manufacturer"),
			Model:        getprop("ro.product.model"),
		}
	}

	return Identity{
		Manufacturer: readSysfsString("/sys/class/dmi/id/sys_vendor"),
		Model:        readSysfsString("/sys/class/dmi/id/product_name"),
	}
}

func readOSVersion() OSVersion {
	if runtime.GOOS == "android" {
		v := OSVersion{
			PlatformName:  "Android",
			VersionString: getprop("ro.build.version.release"),
		}
		if sdk, err := strconv.Atoi(getprop("ro.build.version.sdk")); err == nil {
			v.APILevel = &sdk
		}
		return v
	}

	info, err := host.Info()
	if err != nil {
		logrus.WithError(err).Debug("failed to read host info")
	}
	return linuxOSVersion(info)
}

// linuxOSVersion formats the distribution and its release, e.g. "Ubuntu
// 22.04". Without a known distribution it reports "Linux" and the kernel
// release.
func linuxOSVersion(info *host.InfoStat) OSVersion {
	v := OSVersion{PlatformName: "Linux"}
	if info == nil {
		return v
	}

	if info.Platform != "" {
		v.PlatformName = strings.ToUpper(info.Platform[:1]) + info.Platform[1:]
		v.VersionString = info.PlatformVersion
	}
	if v.VersionString == "" {
		v.VersionString = info.KernelVersion
	}
	return v
}

func getprop(key string) string {
	out, err := exec.Command("getprop", key).Output()
	if err != nil {
		logrus.WithError(err).WithField("key", key).Debug("getprop failed")
		return ""
	}
	return strings.TrimSpace(string(out))
}

func readSysfsString(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Debug("failed to read sysfs attribute")
		return ""
	}
	return strings.TrimSpace(string(b))
}
