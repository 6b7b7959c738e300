// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Split outcomes
const (
	OutcomeStructured = "structured"
	OutcomeFallback   = "fallback"
	OutcomeError      = "error"
)

var (
	SplitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_splitter_splits_total",
			Help: "Total number of split requests by outcome",
		},
		[]string{"outcome"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bill_splitter_model_call_duration_seconds",
			Help:    "Duration of remote model calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"backend", "operation", "status"},
	)

	ModelCallsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bill_splitter_model_calls_in_flight",
			Help: "Number of remote model calls currently running",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_splitter_http_requests_total",
			Help: "Total number of HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)
)

// ObserveModelCall records the duration of one model call started at start
func ObserveModelCall(backend, operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ModelCallDuration.WithLabelValues(backend, operation, status).Observe(time.Since(start).Seconds())
}
