package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PreviewsTotal       *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	FieldsMissingTotal  *prometheus.CounterVec
	CacheHitsTotal      prometheus.Counter
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		PreviewsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "previews_total",
				Help: "Total number of preview requests by outcome.",
			},
			[]string{"status"}, // success, fetch_error, decode_error, error
		),
		FetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "preview_fetch_duration_seconds",
				Help:    "Duration of page acquisition and parsing.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"domain"},
		),
		FieldsMissingTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_fields_missing_total",
				Help: "Number of resolved previews lacking a field.",
			},
			[]string{"field"},
		),
		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "preview_cache_hits_total",
				Help: "Number of previews served from the cache.",
			},
		),
	}
}
