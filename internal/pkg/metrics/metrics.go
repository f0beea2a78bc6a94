// Package metrics defines and registers all custom Prometheus metrics for the
// clinic portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; /metrics exposes them together with the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_portal"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayInvocationsTotal counts action gateway calls.
// Labels:
//   - action: "delete", "book", "book_prompt", "add_doctor", "confirm"
//   - outcome: "armed", "prompted", "succeeded" or the failure kind
var GatewayInvocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_invocations_total",
		Help:      "Total number of action gateway invocations, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// BookingStatesTotal counts terminal booking states reached.
var BookingStatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_terminal_states_total",
		Help:      "Total number of booking attempts, by terminal state.",
	},
	[]string{"state"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsExpiredTotal counts privileged sessions downgraded to guest.
// Label:
//   - role: the role that was held without a valid token
var SessionsExpiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions cleared because a privileged role had no valid token.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by role and result ("ok" or failure kind).
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// ── View metrics ──────────────────────────────────────────────────────────────

// ResponsesDiscardedTotal counts query results that were not applied to a view.
// Labels:
//   - view: "doctors" or "appointments"
//   - reason: "stale" (a newer query already committed) or "unmounted"
var ResponsesDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_responses_discarded_total",
		Help:      "Total number of query responses discarded by the stale-response guard.",
	},
	[]string{"view", "reason"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the clinic backend.
// Labels:
//   - operation: client operation name (e.g. "list_doctors")
//   - status: HTTP status code, or "network_error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the clinic backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks entries waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped on a full queue.",
	},
)
