package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateRequestsTotal       prometheus.Counter
	ConversionRequestsTotal prometheus.Counter
	HistoricalRequestsTotal prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	AdmissionRejectedTotal prometheus.Counter

	UpstreamAttemptsTotal prometheus.Counter
	UpstreamFailuresTotal prometheus.Counter
	CircuitState          prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_requests_total",
				Help: "Total number of latest rate requests",
			},
		),

		ConversionRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		HistoricalRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "historical_requests_total",
				Help: "Total number of historical rate requests",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of rate cache hits",
			},
		),

		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of rate cache misses",
			},
		),

		AdmissionRejectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "admission_rejected_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		UpstreamAttemptsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "upstream_attempts_total",
				Help: "Total number of upstream call attempts, including retries",
			},
		),

		UpstreamFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "upstream_failures_total",
				Help: "Total number of failed upstream call attempts",
			},
		),

		CircuitState: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "upstream_circuit_state",
				Help: "Circuit breaker state (0 = closed, 1 = half-open, 2 = open)",
			},
		),
	}
}
