package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // result: success, user_not_found, bad_password, error
	)

	TaskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task mutations",
		},
		[]string{"operation"}, // operation: create, update, delete
	)
)

// RecordHTTPRequestDuration records one handled request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementLogin counts a login attempt by outcome.
func IncrementLogin(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

// IncrementTaskOperation counts a task mutation.
func IncrementTaskOperation(operation string) {
	TaskOperations.WithLabelValues(operation).Inc()
}
