package bridge

import (
	"errors"

	"github.com/charlie0129/devbridge/pkg/device"
)

// CodeUnavailable is reported when the battery level cannot be read.
const CodeUnavailable = "UNAVAILABLE"

// Error is an error reported to a channel caller.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrUnavailable is the only error the bridge reports.
var ErrUnavailable = &Error{
	Code:    CodeUnavailable,
	Message: "Battery level not available.",
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// toBridgeError converts platform errors to the error reported to callers.
func toBridgeError(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, device.ErrUnavailable) {
		return ErrUnavailable
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	// Anything else the OS reports also means we have no reading.
	return ErrUnavailable
}
