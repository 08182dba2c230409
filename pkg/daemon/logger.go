package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger logs every request through logger once it completes. Streaming
// requests complete when the client hangs up, so their latency is the
// lifetime of the stream.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		statusCode := c.Writer.Status()
		dataLength := max(c.Writer.Size(), 0)

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency.Milliseconds(),
			"method":     c.Request.Method,
			"path":       path,
			"dataLength": dataLength,
		})
		if id := c.Writer.Header().Get("X-Subscription-Id"); id != "" {
			entry = entry.WithField("subscription", id)
		}

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}

		msg := c.Request.Method + " " + path + " " + http.StatusText(statusCode)
		switch {
		// Unknown methods and missing batteries are answers, not failures.
		case statusCode == http.StatusNotImplemented || statusCode == http.StatusServiceUnavailable:
			entry.Info(msg)
		case statusCode >= http.StatusInternalServerError:
			entry.Error(msg)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(msg)
		default:
			entry.Debug(msg)
		}
	}
}
