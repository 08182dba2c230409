package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/r3labs/sse/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/cenkalti/backoff.v1"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/events"
)

// defaultEventName is the name of SSE events sent without an event field.
const defaultEventName = "message"

// SubscribeBattery opens the battery channel. The returned channel receives
// every event the daemon sends and is closed when the stream ends, ctx is
// cancelled or the connection drops. Opening a stream replaces any other
// subscriber on the daemon.
func (c *Client) SubscribeBattery(ctx context.Context) (<-chan events.Event, error) {
	var once sync.Once
	ready := make(chan error, 1)
	connected := func(err error) {
		once.Do(func() { ready <- err })
	}

	sc := sse.NewClient("http://unix/channels/" + bridge.BatteryChannel)
	sc.Connection = c.httpClient
	// A replaced subscriber must not reconnect and take the stream back.
	sc.ReconnectStrategy = &backoff.StopBackOff{}
	sc.ResponseValidator = func(_ *sse.Client, resp *http.Response) error {
		err := checkStreamResponse(resp)
		if err == nil {
			logrus.WithField("id", resp.Header.Get("X-Subscription-Id")).Debug("battery stream opened")
		}
		connected(err)
		return err
	}

	ch := make(chan events.Event)
	go func() {
		defer close(ch)

		err := sc.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			select {
			case ch <- toEvent(msg):
			case <-ctx.Done():
			}
		})
		// Covers failures before any response, e.g. the daemon is not running.
		connected(err)
		if err != nil && ctx.Err() == nil {
			logrus.Debugf("battery stream ended: %v", err)
		}
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return ch, nil
}

// checkStreamResponse rejects anything but an open event stream. The body
// of a rejected response is closed.
func checkStreamResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("/channels/%s: %w", bridge.BatteryChannel, ErrNotFound)
	}
	return fmt.Errorf("got %d: %s", resp.StatusCode, string(b))
}

func toEvent(msg *sse.Event) events.Event {
	ev := events.Event{Name: string(msg.Event)}
	if ev.Name == "" {
		ev.Name = defaultEventName
	}
	if len(msg.Data) > 0 {
		ev.Data = append([]byte(nil), msg.Data...)
	}
	return ev
}
