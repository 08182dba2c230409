package device

import (
	"time"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how often the host battery is sampled for changes.
const DefaultPollInterval = 5 * time.Second

// Host is the Platform backed by the machine devbridge runs on.
type Host struct {
	pollInterval time.Duration
	battery      func() (int, error)
}

var _ Platform = &Host{}

// NewHost returns the Platform of the running machine. Battery changes are
// detected by sampling every pollInterval; zero means DefaultPollInterval.
func NewHost(pollInterval time.Duration) *Host {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Host{
		pollInterval: pollInterval,
		battery:      hostBatteryPercentage,
	}
}

// Identity implements Platform.
func (h *Host) Identity() Identity {
	return readIdentity()
}

// OSVersion implements Platform.
func (h *Host) OSVersion() OSVersion {
	return readOSVersion()
}

// BatteryPercentage implements Platform.
func (h *Host) BatteryPercentage() (int, error) {
	return h.battery()
}

// WatchBattery implements Platform.
func (h *Host) WatchBattery(onChange func()) (Subscription, error) {
	w, err := newPollWatcher(h.battery, h.pollInterval, onChange)
	if err != nil {
		return nil, err
	}
	logrus.WithField("interval", h.pollInterval).Debug("watching battery changes")
	return w, nil
}

// batteryPercentage reads the first battery reported by the OS.
func batteryPercentage() (int, error) {
	batteries, err := battery.GetAll()
	for _, bat := range batteries {
		if bat == nil || bat.Full <= 0 {
			continue
		}
		return normalizePercentage(bat.Current / bat.Full * 100)
	}

	if err != nil {
		logrus.WithError(err).Debug("failed to read battery info")
		return 0, pkgerrors.Wrapf(ErrUnavailable, "%v", err)
	}

	// No batteries at all, e.g. desktops, VMs and emulators.
	return 0, ErrUnavailable
}
