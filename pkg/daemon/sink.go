package daemon

import (
	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/events"
)

// streamBufferSize bounds the events queued for one slow stream client.
const streamBufferSize = 16

// queueSink forwards publisher events to an events.Queue drained by one
// streaming connection.
type queueSink struct {
	q       *events.Queue
	metrics *metrics
}

var _ bridge.Sink = &queueSink{}

func newQueueSink(m *metrics) *queueSink {
	return &queueSink{
		q:       events.NewQueue(streamBufferSize),
		metrics: m,
	}
}

func (s *queueSink) Success(level int) {
	if s.q.Publish(events.BatteryLevel, level) {
		s.metrics.batteryEvents.WithLabelValues(events.BatteryLevel).Inc()
	}
}

func (s *queueSink) Error(err *bridge.Error) {
	payload := events.BatteryErrorEvent{Code: err.Code, Message: err.Message}
	if s.q.Publish(events.BatteryError, payload) {
		s.metrics.batteryEvents.WithLabelValues(events.BatteryError).Inc()
	}
}

func (s *queueSink) EndOfStream() {
	s.q.Close()
}
