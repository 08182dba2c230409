package device

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// pollWatcher samples the battery at a fixed interval and calls onChange
// whenever the level or its availability differs from the previous sample.
type pollWatcher struct {
	read     func() (int, error)
	interval time.Duration
	onChange func()

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ Subscription = &pollWatcher{}

func newPollWatcher(read func() (int, error), interval time.Duration, onChange func()) (*pollWatcher, error) {
	if read == nil || onChange == nil {
		return nil, errors.New("battery reader and change callback must not be nil")
	}
	if interval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}

	w := &pollWatcher{
		read:     read,
		interval: interval,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	last := ReadBatteryFunc(read)
	go w.loop(last)

	return w, nil
}

// ReadBatteryFunc samples read and returns the result as a BatteryReading.
func ReadBatteryFunc(read func() (int, error)) BatteryReading {
	pct, err := read()
	if err != nil {
		return BatteryReading{}
	}
	return BatteryReading{Percentage: pct, Available: true}
}

func (w *pollWatcher) loop(last BatteryReading) {
	defer close(w.done)

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-t.C:
		}

		cur := ReadBatteryFunc(w.read)
		if cur == last {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"from":      last.Percentage,
			"to":        cur.Percentage,
			"available": cur.Available,
		}).Trace("battery changed")
		last = cur

		// Stop may have been requested while we were reading.
		select {
		case <-w.stop:
			return
		default:
		}
		w.onChange()
	}
}

// Cancel stops polling and waits for the polling goroutine to exit.
func (w *pollWatcher) Cancel() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	<-w.done
}
