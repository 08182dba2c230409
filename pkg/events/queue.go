package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Queue delivers events to a single consumer. Publishing never blocks.
type Queue struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewQueue returns a Queue buffering up to size events.
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Event, size)}
}

// C returns the channel events are delivered on. It is closed by Close.
func (q *Queue) C() <-chan Event {
	return q.ch
}

// Publish encodes payload and queues it under name. It reports whether the
// event was queued.
func (q *Queue) Publish(name string, payload any) bool {
	if q == nil {
		return false
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Error("failed to encode event")
		return false
	}
	msg := Event{Name: name, Data: b}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	// Non-blocking send; drop if the consumer is slow
	select {
	case q.ch <- msg:
		return true
	default:
		logrus.WithField("event", name).Warn("event queue full, dropping event")
		return false
	}
}

// Close closes the delivery channel. Later publishes are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
