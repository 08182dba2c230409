package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/device"
)

// Sink receives battery channel events.
type Sink interface {
	// Success delivers a battery level in [0,100].
	Success(level int)
	// Error delivers a reading the OS could not provide.
	Error(err *Error)
	// EndOfStream tells the sink it will receive nothing more because the
	// subscription was replaced or the publisher was closed.
	EndOfStream()
}

// SubscriptionInfo describes the publisher state.
type SubscriptionInfo struct {
	Active bool      `json:"active"`
	ID     string    `json:"id,omitempty"`
	Since  time.Time `json:"since,omitempty"`
}

type subscription struct {
	id     string
	sink   Sink
	handle device.Subscription
	since  time.Time

	// last is the reading most recently delivered to sink, guarded by
	// Publisher.mu.
	last *device.BatteryReading
}

// Publisher publishes battery readings to at most one subscriber.
//
// It is Idle until Subscribe registers with the platform and Active until
// Unsubscribe or Close releases the registration. Readings are not buffered
// while Idle.
type Publisher struct {
	platform device.Platform

	// lifecycle serializes Subscribe, Unsubscribe and Close. It is never held
	// by platform callbacks, so cancelling a registration while holding it
	// cannot deadlock.
	lifecycle sync.Mutex

	// mu guards active and sink delivery.
	mu     sync.Mutex
	active *subscription
}

// NewPublisher returns an Idle Publisher reading from p.
func NewPublisher(p device.Platform) *Publisher {
	return &Publisher{
		platform: p,
	}
}

// Subscribe makes sink the subscriber and returns its subscription id.
//
// A current subscriber, if any, is replaced: its registration is released
// and it receives EndOfStream. The new sink receives the current reading
// before Subscribe returns and before any change-driven reading.
func (p *Publisher) Subscribe(sink Sink) (string, error) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if old := p.detach(); old != nil {
		old.handle.Cancel()
		old.sink.EndOfStream()
		logrus.WithField("id", old.id).Info("battery subscriber replaced")
	}

	sub := &subscription{
		id:    uuid.NewString(),
		sink:  sink,
		since: time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := p.platform.WatchBattery(func() { p.onChange(sub) })
	if err != nil {
		return "", err
	}
	sub.handle = handle
	p.active = sub

	p.emit(sub)

	logrus.WithField("id", sub.id).Info("battery subscriber registered")

	return sub.id, nil
}

// Unsubscribe releases the subscription with the given id. It returns false
// if that subscription is not the active one, e.g. it was already replaced.
func (p *Publisher) Unsubscribe(id string) bool {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.mu.Lock()
	sub := p.active
	if sub == nil || sub.id != id {
		p.mu.Unlock()
		return false
	}
	p.active = nil
	p.mu.Unlock()

	sub.handle.Cancel()
	logrus.WithField("id", id).Info("battery subscriber cancelled")

	return true
}

// Close releases the active subscription, if any, and ends its stream.
func (p *Publisher) Close() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	sub := p.detach()
	if sub == nil {
		return
	}
	sub.handle.Cancel()
	sub.sink.EndOfStream()
	logrus.WithField("id", sub.id).Info("battery publisher closed")
}

// Status returns the current publisher state.
func (p *Publisher) Status() SubscriptionInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return SubscriptionInfo{}
	}
	return SubscriptionInfo{
		Active: true,
		ID:     p.active.id,
		Since:  p.active.since,
	}
}

func (p *Publisher) detach() *subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := p.active
	p.active = nil
	return sub
}

func (p *Publisher) onChange(sub *subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A callback can race with Unsubscribe; drop it once sub is detached.
	if p.active != sub {
		return
	}
	p.emit(sub)
}

// emit delivers the current reading unless it repeats the previous one. A
// watcher may report a change the initial reading already covered. emit must
// be called with mu held.
func (p *Publisher) emit(sub *subscription) {
	r := device.ReadBattery(p.platform)
	if sub.last != nil && *sub.last == r {
		return
	}
	sub.last = &r

	if !r.Available {
		sub.sink.Error(ErrUnavailable)
		return
	}
	sub.sink.Success(r.Percentage)
}
