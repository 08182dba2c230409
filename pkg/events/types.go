package events

import "encoding/json"

// Event names on the battery channel.
const (
	// BatteryLevel carries a battery level in [0,100].
	BatteryLevel = "battery"
	// BatteryError carries a bridge error, e.g. UNAVAILABLE.
	BatteryError = "error"
	// StreamEnd is sent when the daemon ends the stream, e.g. because another
	// subscriber replaced this one.
	StreamEnd = "end"
)

// Event is a generic event on the battery channel.
type Event struct {
	Name string          `json:"event"` // SSE event name
	Data json.RawMessage `json:"data,omitempty"`
}

// BatteryErrorEvent is the typed payload for BatteryError.
type BatteryErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	level, err := events.DecodeAs[int](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(level)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
