//go:build !darwin || ios

package device

func hostBatteryPercentage() (int, error) {
	return batteryPercentage()
}
