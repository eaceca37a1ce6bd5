// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_app",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calorie_app",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_app",
			Name:      "predictions_total",
			Help:      "Prediction attempts by outcome (ok, invalid, error).",
		},
		[]string{"outcome"},
	)

	StoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_app",
			Subsystem: "feedback_store",
			Name:      "operations_total",
			Help:      "Feedback store calls by backend, operation and outcome.",
		},
		[]string{"backend", "op", "outcome"},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "calorie_app",
			Subsystem: "feedback_store",
			Name:      "operation_duration_seconds",
			Help:      "Feedback store call latency by backend and operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calorie_app",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter.",
		},
		[]string{"limiter"},
	)
)

// RecordHTTP records one finished request.
func RecordHTTP(method, route, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordPrediction counts one prediction attempt.
func RecordPrediction(outcome string) {
	Predictions.WithLabelValues(outcome).Inc()
}

// RecordStoreOp records one store call; err decides the outcome label.
func RecordStoreOp(backend, op string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOps.WithLabelValues(backend, op, outcome).Inc()
	StoreDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}
