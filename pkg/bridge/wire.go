package bridge

import (
	"encoding/json"
)

// Default channel names. The daemon serves both under a configurable prefix.
const (
	PlatformChannel = "platform"
	BatteryChannel  = "battery"
)

// MethodCall is the body of a platform channel request.
type MethodCall struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MethodResponse is the body of a platform channel response.
type MethodResponse struct {
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	NotImplemented bool            `json:"notImplemented,omitempty"`
}

// NewMethodResponse encodes r for the wire.
func NewMethodResponse(r Result) (*MethodResponse, error) {
	switch {
	case r.NotImplemented:
		return &MethodResponse{NotImplemented: true}, nil
	case r.Err != nil:
		return &MethodResponse{Error: r.Err}, nil
	}

	b, err := json.Marshal(r.Value)
	if err != nil {
		return nil, err
	}
	return &MethodResponse{Result: b}, nil
}
