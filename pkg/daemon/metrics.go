package daemon

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlie0129/devbridge/pkg/bridge"
)

type metrics struct {
	registry      *prometheus.Registry
	methodCalls   *prometheus.CounterVec
	batteryEvents *prometheus.CounterVec
	openStreams   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		methodCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devbridge",
			Name:      "method_calls_total",
			Help:      "Platform channel calls by method and outcome.",
		}, []string{"method", "outcome"}),
		batteryEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devbridge",
			Name:      "battery_events_total",
			Help:      "Battery channel events delivered, by event name.",
		}, []string{"event"}),
		openStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "devbridge",
			Name:      "battery_streams_open",
			Help:      "Battery channel connections currently open.",
		}),
	}
	m.registry.MustRegister(m.methodCalls, m.batteryEvents, m.openStreams)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts the calls handled by h.
func (m *metrics) instrument(h bridge.Handler) bridge.Handler {
	return bridge.HandlerFunc(func(ctx context.Context, req bridge.Request) bridge.Result {
		res := h.Handle(ctx, req)

		outcome := "success"
		method := string(req.Method())
		switch {
		case res.NotImplemented:
			outcome = "not_implemented"
			// Unknown names are caller-controlled; keep label cardinality bounded.
			method = "unknown"
		case res.Err != nil:
			outcome = res.Err.Code
		}
		m.methodCalls.WithLabelValues(method, outcome).Inc()

		return res
	})
}
