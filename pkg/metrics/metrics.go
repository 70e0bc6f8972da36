package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campolink/campolink/internal/common/config"
)

// Metrics aggregates the Prometheus instrumentation of the apiserver:
// broadcast-hub gauges/counters plus basic HTTP metrics.
type Metrics struct {
	registry *prometheus.Registry

	wsConnections  prometheus.Gauge
	eventsEmitted  *prometheus.CounterVec
	eventsSent     *prometheus.CounterVec
	eventsDropped  *prometheus.CounterVec
	handshakeTotal *prometheus.CounterVec

	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
}

// New creates a Metrics registry
func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = "campolink"
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	wsConnections := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "ws_connections"})
	eventsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "events_emitted_total"}, []string{"event"})
	eventsSent := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "events_delivered_total"}, []string{"event"})
	eventsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "events_dropped_total"}, []string{"event"})
	handshakeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "ws_handshakes_total"}, []string{"outcome"})
	r.MustRegister(wsConnections, eventsEmitted, eventsSent, eventsDropped, handshakeTotal)

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route"})
	r.MustRegister(httpReqCnt, httpDur)

	return &Metrics{
		registry:       r,
		wsConnections:  wsConnections,
		eventsEmitted:  eventsEmitted,
		eventsSent:     eventsSent,
		eventsDropped:  eventsDropped,
		handshakeTotal: handshakeTotal,
		httpReqCnt:     httpReqCnt,
		httpDur:        httpDur,
	}
}

func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

func (m *Metrics) Emitted(eventName string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(eventName).Inc()
}

func (m *Metrics) Delivered(eventName string) {
	if m == nil {
		return
	}
	m.eventsSent.WithLabelValues(eventName).Inc()
}

func (m *Metrics) Dropped(eventName string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(eventName).Inc()
}

func (m *Metrics) Handshake(outcome string) {
	if m == nil {
		return
	}
	m.handshakeTotal.WithLabelValues(outcome).Inc()
}

// GinMiddleware records request count and duration per route
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := statusText(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for a /metrics route
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func statusText(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
