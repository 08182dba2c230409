//go:build darwin && !ios

package device

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/smc"
)

var (
	smcConn     *smc.AppleSMC
	smcOpenOnce sync.Once
)

func openSMC() *smc.AppleSMC {
	smcOpenOnce.Do(func() {
		c := smc.New()
		if err := c.Open(); err != nil {
			logrus.WithError(err).Warn("failed to open SMC, falling back to IOKit battery info")
			return
		}
		smcConn = c
	})
	return smcConn
}

// hostBatteryPercentage prefers the SMC charge, which is what the menu bar
// shows, and falls back to IOKit.
func hostBatteryPercentage() (int, error) {
	if c := openSMC(); c != nil {
		charge, err := c.GetBatteryCharge()
		if err == nil {
			return normalizePercentage(float64(charge))
		}
		logrus.WithError(err).Debug("failed to read battery charge from SMC")
	}
	return batteryPercentage()
}
