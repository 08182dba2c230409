//go:build darwin && !ios

package smc

// BatteryChargeKey holds the battery charge on Apple Silicon.
const BatteryChargeKey = "BUIC"
