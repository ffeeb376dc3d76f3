package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal counts total HTTP requests
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emicalc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration measures request latency
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "emicalc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// httpRequestsInFlight tracks concurrent requests
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "emicalc",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// httpResponseSize measures response body size
	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "emicalc",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to 10GB
		},
		[]string{"method", "path"},
	)
)

// Business metrics
var (
	// CalculationsTotal counts calculations by kind and outcome
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emicalc",
			Subsystem: "business",
			Name:      "calculations_total",
			Help:      "Total number of loan calculations",
		},
		[]string{"kind", "outcome"},
	)

	// CalculationDuration measures calculation latency, validation included
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "emicalc",
			Subsystem: "business",
			Name:      "calculation_duration_seconds",
			Help:      "Loan calculation duration in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"kind"},
	)

	// rateLimitedTotal counts requests rejected with 429, by limiter scope
	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emicalc",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
		[]string{"scope"},
	)

	// CacheLookupsTotal counts result cache lookups (hit, miss, error)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "emicalc",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of result cache lookups",
		},
		[]string{"kind", "result"},
	)
)

// Metrics returns Prometheus HTTP middleware. Requests to skipPaths
// (the scrape endpoint itself) are not measured. Unmatched routes are
// reported under path "unknown" so 404 scans do not blow up cardinality.
func Metrics(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		httpResponseSize.WithLabelValues(method, path).Observe(float64(c.Writer.Size()))
	}
}

// BusinessMetrics пишет метрики расчётов в Prometheus.
// Реализует loan.MetricsRecorder из слоя use cases.
type BusinessMetrics struct{}

// NewBusinessMetrics создаёт recorder поверх глобальных коллекторов.
func NewBusinessMetrics() *BusinessMetrics {
	return &BusinessMetrics{}
}

// RecordCalculation records a finished calculation
func (m *BusinessMetrics) RecordCalculation(kind, outcome string, duration time.Duration) {
	CalculationsTotal.WithLabelValues(kind, outcome).Inc()
	CalculationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a result cache lookup
func (m *BusinessMetrics) RecordCacheLookup(kind, result string) {
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}
