// Package device is the OS-facing side of devbridge. It reads device identity,
// OS version and battery level, and watches the battery for changes.
package device

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned when the OS cannot report a battery level, e.g.
// there is no battery, or the reading is negative or unknown.
var ErrUnavailable = errors.New("battery level not available")

// Identity identifies the device hardware.
type Identity struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	// HardwareID is the raw machine identifier (e.g. iPhone15,2). It is only
	// set on platforms whose model name is resolved through a ModelTable.
	HardwareID string `json:"hardwareId,omitempty"`
}

// DisplayName returns a human-readable model name.
//
// If a hardware identifier is present, it is resolved through t and falls
// back to the raw identifier. Otherwise "<manufacturer> <model>" is returned.
func (i Identity) DisplayName(t *ModelTable) string {
	if i.HardwareID != "" {
		return t.Lookup(i.HardwareID)
	}
	return strings.TrimSpace(i.Manufacturer + " " + i.Model)
}

// OSVersion describes the running operating system.
type OSVersion struct {
	PlatformName  string `json:"platformName"`
	VersionString string `json:"versionString"`
	// APILevel is only known on Android.
	APILevel *int `json:"apiLevel,omitempty"`
}

// String formats v as "<platform> <version>", with " (API <n>)" appended
// when the API level is known.
func (v OSVersion) String() string {
	s := strings.TrimSpace(v.PlatformName + " " + v.VersionString)
	if v.APILevel != nil {
		s += fmt.Sprintf(" (API %d)", *v.APILevel)
	}
	return s
}

// BatteryReading is a single battery level sample.
type BatteryReading struct {
	Percentage int  `json:"percentage"`
	Available  bool `json:"available"`
}

// Subscription is one active battery-change registration with the OS.
type Subscription interface {
	// Cancel releases the registration. No callback runs after Cancel returns.
	// Calling Cancel more than once is a no-op.
	Cancel()
}

// Platform is the narrow capability interface devbridge needs from the OS.
type Platform interface {
	// Identity returns the device identity. It is read fresh on every call.
	Identity() Identity
	// OSVersion returns the OS version. It is read fresh on every call.
	OSVersion() OSVersion
	// BatteryPercentage returns the current battery level in [0,100], or
	// ErrUnavailable.
	BatteryPercentage() (int, error)
	// WatchBattery registers onChange to be called every time the OS reports
	// a battery change.
	WatchBattery(onChange func()) (Subscription, error)
}

// ReadBattery samples p and returns the result as a BatteryReading.
func ReadBattery(p Platform) BatteryReading {
	return ReadBatteryFunc(p.BatteryPercentage)
}

// normalizePercentage converts a raw level into [0,100]. Negative and NaN
// readings mean the OS does not know.
func normalizePercentage(raw float64) (int, error) {
	if raw != raw || raw < 0 {
		return 0, ErrUnavailable
	}
	if raw > 100 {
		return 100, nil
	}
	return int(raw + 0.5), nil
}
