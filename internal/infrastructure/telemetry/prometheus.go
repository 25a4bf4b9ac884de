package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricAPIRequestsTotal      = "aliexpress_requests_total"
	MetricAPIRequestDuration    = "aliexpress_request_duration_seconds"
	MetricHTTPRequestsTotal     = "http_requests_total"
	MetricHTTPRequestDuration   = "http_request_duration_seconds"
	MetricSyncInProgress        = "electic_sync_in_progress"
	MetricLastSyncSuccessSecond = "electic_last_sync_success_timestamp_seconds"
)

// APIDurationBuckets are bucket boundaries for marketplace calls (seconds).
var APIDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// PrometheusRegistry owns the scrape-side metrics served on /metrics.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type PrometheusRegistry struct {
	registry *prometheus.Registry

	apiRequestsTotal    *prometheus.CounterVec
	apiRequestDuration  *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	syncInProgress      prometheus.Gauge
	lastSyncSuccess     prometheus.Gauge
}

// NewPrometheusRegistry creates a dedicated registry with Go runtime and
// process collectors plus the service metrics.
func NewPrometheusRegistry() *PrometheusRegistry {
	registry := prometheus.NewRegistry()

	r := &PrometheusRegistry{
		registry: registry,
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricAPIRequestsTotal,
				Help: "Total number of AliExpress API attempts by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricAPIRequestDuration,
				Help:    "Histogram of AliExpress API attempt durations.",
				Buckets: APIDurationBuckets,
			},
			[]string{"method"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "Histogram of HTTP request durations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		syncInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricSyncInProgress,
			Help: "1 while this instance is running a catalog sync.",
		}),
		lastSyncSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastSyncSuccessSecond,
			Help: "Unix time of the last successful catalog sync.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.apiRequestsTotal,
		r.apiRequestDuration,
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.syncInProgress,
		r.lastSyncSuccess,
	)
	return r
}

// ObserveAPIRequest records one AliExpress HTTP attempt.
func (r *PrometheusRegistry) ObserveAPIRequest(method, outcome string, duration time.Duration) {
	r.apiRequestsTotal.WithLabelValues(method, outcome).Inc()
	r.apiRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordHTTPRequest records one served HTTP request.
func (r *PrometheusRegistry) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	r.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// SyncStarted flags a sync as in progress.
func (r *PrometheusRegistry) SyncStarted() {
	r.syncInProgress.Set(1)
}

// SyncFinished clears the in-progress flag and stamps successful runs.
func (r *PrometheusRegistry) SyncFinished(success bool, at time.Time) {
	r.syncInProgress.Set(0)
	if success {
		r.lastSyncSuccess.Set(float64(at.Unix()))
	}
}

// Gatherer exposes the registry for tests.
func (r *PrometheusRegistry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns the /metrics HTTP handler.
func (r *PrometheusRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// classifyStatus buckets an HTTP status code into 2xx/3xx/4xx/5xx.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 600 {
		return strconv.Itoa(statusCode/100) + "xx"
	}
	return "unknown"
}
