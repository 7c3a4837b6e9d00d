package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "artkey_store",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artkey_store",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artkey_store",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "artkey_store",
			Subsystem: "checkout",
			Name:      "orders_created_total",
			Help:      "Orders created through checkout.",
		},
	)

	artKeysIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "artkey_store",
			Subsystem: "portal",
			Name:      "artkeys_issued_total",
			Help:      "ArtKey portals issued at checkout.",
		},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artkey_store",
			Subsystem: "design",
			Name:      "exports_total",
			Help:      "Design renders by format and outcome.",
		},
		[]string{"format", "status"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ordersCreated,
		artKeysIssued,
		exports,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. Routes
// are labelled by their gin pattern so path parameters don't explode the
// label space.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordOrder() {
	ordersCreated.Inc()
}

func RecordArtKeys(n int) {
	artKeysIssued.Add(float64(n))
}

// RecordExport counts a render; format is "pdf" or "png".
func RecordExport(format string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	exports.WithLabelValues(format, status).Inc()
}
