// Package metrics exposes Prometheus instruments for the HTTP surface and the
// billing flows.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics holds the application instruments. A nil *Metrics is safe to call.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	breakdownTotal  *prometheus.CounterVec
	documentsIssued *prometheus.CounterVec
}

func New() (*Metrics, error) {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viatica_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "viatica_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		breakdownTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viatica_breakdown_computes_total",
			Help: "Billing breakdown computations by mode.",
		}, []string{"mode"}),
		documentsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viatica_documents_issued_total",
			Help: "Fiscal documents issued by kind.",
		}, []string{"kind"}),
	}

	collectors := []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.breakdownTotal,
		m.documentsIssued,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}

	return m, nil
}

// RecordBreakdown increments breakdown computation counts.
func (m *Metrics) RecordBreakdown(mode string) {
	if m == nil {
		return
	}
	m.breakdownTotal.WithLabelValues(mode).Inc()
}

// RecordDocumentIssued increments issued document counts.
func (m *Metrics) RecordDocumentIssued(kind string) {
	if m == nil {
		return
	}
	m.documentsIssued.WithLabelValues(kind).Inc()
}

// GinMiddleware records request counts and latency per registered route.
// Unmatched paths are collapsed into a single label to keep cardinality flat.
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
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(method, route, status).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
