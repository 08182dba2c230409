//go:build darwin && !ios

package smc

// BatteryChargeKey holds the battery charge on Intel Macs. Not verified yet.
const BatteryChargeKey = "BBIF"
