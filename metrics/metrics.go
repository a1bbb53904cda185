// Package metrics exposes Prometheus metrics for searches and the HTTP API.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/hitcount/aggregate"
	"github.com/poiesic/hitcount/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Word call outcomes used as the "outcome" label.
const (
	OutcomeCounted = "counted"
	OutcomeFailed  = "failed"
)

// Collector manages Prometheus metrics for the service.
// It implements aggregate.Monitor so an Aggregator can report into it.
type Collector struct {
	registry *prometheus.Registry

	searchesTotal  prometheus.Counter
	wordCallsTotal *prometheus.CounterVec
	providerTotals *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeRequests      prometheus.Gauge
}

var _ aggregate.Monitor = (*Collector)(nil)

// NewCollector creates a collector with its own registry. namespace
// prefixes every metric name; hyphens become underscores.
func NewCollector(namespace string) *Collector {
	ns := strings.ReplaceAll(namespace, "-", "_")

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "searches_total",
		Help:      "Total number of completed aggregated searches",
	})

	c.wordCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "word_calls_total",
			Help:      "Total number of per-word provider calls",
		},
		[]string{"provider", "outcome"},
	)

	c.providerTotals = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "provider_total_results",
			Help:      "Summed result count per provider per search",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 12),
		},
		[]string{"provider"},
	)

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	c.activeRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "http_active_requests",
		Help:      "Number of HTTP requests being served",
	})

	c.registry.MustRegister(
		c.searchesTotal,
		c.wordCallsTotal,
		c.providerTotals,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.activeRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Start is a no-op; searches are counted when they finish.
func (c *Collector) Start(_ string, _ []string) {}

// WordCounted records a successful word call.
func (c *Collector) WordCounted(provider, _ string, _ int64) {
	c.wordCallsTotal.WithLabelValues(provider, OutcomeCounted).Inc()
}

// WordFailed records a failed word call.
func (c *Collector) WordFailed(provider, _ string, _ error) {
	c.wordCallsTotal.WithLabelValues(provider, OutcomeFailed).Inc()
}

// ProviderTotal observes a provider's summed count.
func (c *Collector) ProviderTotal(provider string, total int64) {
	c.providerTotals.WithLabelValues(provider).Observe(float64(total))
}

// Finish counts a completed search.
func (c *Collector) Finish(_ core.EngineTotals) {
	c.searchesTotal.Inc()
}

// Middleware returns gin middleware that collects HTTP metrics.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		c.activeRequests.Inc()
		defer c.activeRequests.Dec()

		ctx.Next()

		duration := time.Since(start).Seconds()
		method := ctx.Request.Method
		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		c.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func (c *Collector) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		handler.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
