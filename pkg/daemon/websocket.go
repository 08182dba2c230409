package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/events"
)

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The daemon is reached through a local socket or an explicitly
	// configured TCP address; there is no browser origin to check.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamBatteryWebSocket serves the battery channel over a websocket. Each
// event is one JSON text message.
func (d *daemon) streamBatteryWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logrus.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sink := newQueueSink(d.metrics)
	id, err := d.publisher.Subscribe(sink)
	if err != nil {
		logrus.Errorf("failed to subscribe to battery changes: %v", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
		return
	}
	defer d.publisher.Unsubscribe(id)

	d.metrics.openStreams.Inc()
	defer d.metrics.openStreams.Dec()

	// The client sends nothing; reading only detects it hanging up.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			logrus.WithField("id", id).Debug("websocket client disconnected")
			return
		case ev, ok := <-sink.q.C():
			if !ok {
				ev = events.Event{Name: events.StreamEnd}
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				logrus.WithField("id", id).Debugf("websocket write failed: %v", err)
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"))
				return
			}
		}
	}
}
