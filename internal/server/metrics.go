package server

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors are process-wide singletons. They are registered
// exactly once regardless of how many Metrics values exist, so tests can
// construct servers freely.
var (
	metricsOnce sync.Once

	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	checkDuration  *prometheus.HistogramVec
)

func registerMetrics() {
	metricsOnce.Do(func() {
		activeRequests = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibgrade_active_requests",
			Help: "Number of HTTP requests currently being served.",
		})
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibgrade_requests_total",
			Help: "Total number of HTTP requests served, by path.",
		}, []string{"path"})
		checkDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fibgrade_check_duration_seconds",
			Help:    "Duration of grading checks, by reference.",
			Buckets: prometheus.DefBuckets,
		}, []string{"reference"})

		prometheus.MustRegister(activeRequests, requestsTotal, checkDuration)

		// Pre-create the main series so they appear in scrapes before the
		// first request.
		requestsTotal.WithLabelValues("/api/v1/check").Add(0)
		requestsTotal.WithLabelValues("/healthz").Add(0)
	})
}

// Metrics bundles the Prometheus collectors and the scrape handler used
// by the grading server.
type Metrics struct {
	handler http.Handler
}

// NewMetrics creates a Metrics value, registering the process-wide
// collectors on first use.
func NewMetrics() *Metrics {
	registerMetrics()
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests increments the in-flight request gauge.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-flight request gauge.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// CountRequest increments the per-path request counter.
func (m *Metrics) CountRequest(path string) {
	requestsTotal.WithLabelValues(path).Inc()
}

// ObserveCheckDuration records the duration of one reference check.
func (m *Metrics) ObserveCheckDuration(ref string, seconds float64) {
	checkDuration.WithLabelValues(ref).Observe(seconds)
}

// WritePrometheus serves the Prometheus scrape endpoint.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
