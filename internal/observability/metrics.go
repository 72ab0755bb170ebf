// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelationshipTransitions counts social graph state transitions by kind
	// (request_sent, request_accepted, request_rejected, auto_accepted,
	// friend_removed).
	RelationshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_relationship_transitions_total",
		Help: "Total social graph state transitions by kind",
	}, []string{"transition"})

	// VisibilityDenials counts access denials by resolver reason.
	VisibilityDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_visibility_denials_total",
		Help: "Total visibility denials by reason",
	}, []string{"reason"})

	// NotificationFanout counts created notification records by type.
	NotificationFanout = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_notification_fanout_total",
		Help: "Total notifications created by type",
	}, []string{"type"})

	// NotificationFailures counts swallowed notification dispatch errors.
	// The primary action succeeds regardless, so this is the only signal.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinship_notification_failures_total",
		Help: "Total notification dispatch errors that were logged and swallowed",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinship_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
