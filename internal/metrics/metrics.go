// Package metrics holds the Prometheus collectors of the complaint desk.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "complaintdesk"

var (
	// Notifications counts push attempts per target ("group", "reporter") and result.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by target and result",
		},
		[]string{"target", "result"},
	)

	// CleanupFailures counts storage objects that could not be deleted.
	CleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_cleanup_failures_total",
			Help:      "Image deletions that failed and were left behind",
		},
	)

	// WebhookEvents counts inbound chat events by kind and result.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by kind and processing result",
		},
		[]string{"kind", "result"},
	)

	// LifecycleOps counts lifecycle operations by name and result.
	LifecycleOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_operations_total",
			Help:      "Complaint lifecycle operations by name and result",
		},
		[]string{"op", "result"},
	)
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// ObserveOp records the outcome of a lifecycle operation.
func ObserveOp(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	LifecycleOps.WithLabelValues(op, result).Inc()
}
