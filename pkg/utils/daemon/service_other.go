//go:build !darwin && !linux

package daemon

import (
	"fmt"
	"runtime"
)

func hostService() (service, error) {
	return service{}, fmt.Errorf("installing the daemon is not supported on %s", runtime.GOOS)
}
