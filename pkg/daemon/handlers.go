package daemon

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/events"
	"github.com/charlie0129/devbridge/pkg/version"
)

func (d *daemon) getChannels(c *gin.Context) {
	prefix := d.conf.ChannelPrefix()
	c.IndentedJSON(http.StatusOK, gin.H{
		"platform": prefix + "/" + bridge.PlatformChannel,
		"battery":  prefix + "/" + bridge.BatteryChannel,
	})
}

func (d *daemon) invokeMethod(c *gin.Context) {
	var call bridge.MethodCall
	if err := c.BindJSON(&call); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	res := d.handler.Handle(c.Request.Context(), bridge.ParseRequest(call.Method))

	resp, err := bridge.NewMethodResponse(res)
	if err != nil {
		logrus.Errorf("failed to encode result of %s: %v", call.Method, err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	switch {
	case resp.NotImplemented:
		status = http.StatusNotImplemented
	case resp.Error != nil:
		status = http.StatusServiceUnavailable
	}

	c.IndentedJSON(status, resp)
}

func (d *daemon) streamBattery(c *gin.Context) {
	sink := newQueueSink(d.metrics)
	id, err := d.publisher.Subscribe(sink)
	if err != nil {
		logrus.Errorf("failed to subscribe to battery changes: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	defer d.publisher.Unsubscribe(id)

	d.metrics.openStreams.Inc()
	defer d.metrics.openStreams.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Subscription-Id", id)

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sink.q.C():
			if !ok {
				c.SSEvent(events.StreamEnd, "")
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})

	logrus.WithField("id", id).Debug("battery stream closed")
}

func (d *daemon) getSubscription(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, d.publisher.Status())
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
