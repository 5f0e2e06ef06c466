// Package metrics provides Prometheus metrics for HTTP serving and the
// dosage engine:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - dosage_calculations_total: Counter with medication and outcome labels
//   - dosage_calculation_duration_seconds: Histogram with medication label
//   - dosage_alerts_emitted_total: Counter with medication label
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	// CalculationsTotal counts dosage calculations by medication and outcome
	// (ok, invalid_input, unsafe, needs_data).
	CalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dosage_calculations_total",
			Help: "Total dosage calculations by medication and outcome",
		},
		[]string{"medication", "outcome"},
	)

	CalculationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dosage_calculation_duration_seconds",
			Help:    "Dosage calculation latency",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"medication"},
	)

	AlertsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dosage_alerts_emitted_total",
			Help: "Total clinical alerts attached to dosage results",
		},
		[]string{"medication"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(CalculationsTotal)
	prometheus.MustRegister(CalculationDuration)
	prometheus.MustRegister(AlertsEmitted)
}
