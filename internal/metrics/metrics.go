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

	TaskOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operation_count",
			Help: "Total number of task mutations",
		},
		[]string{"operation"}, // create, update, status, assign, delete
	)

	AuthAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempt_count",
			Help: "Total number of login/register attempts",
		},
		[]string{"kind", "outcome"},
	)

	NotificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_count",
			Help: "Total number of notifications written by the worker",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordTaskOperation(operation string) {
	TaskOperationCount.WithLabelValues(operation).Inc()
}

func RecordAuthAttempt(kind, outcome string) {
	AuthAttemptCount.WithLabelValues(kind, outcome).Inc()
}

func RecordNotification(notificationType string) {
	NotificationCount.WithLabelValues(notificationType).Inc()
}
