// Package metrics defines and registers all custom Prometheus metrics for the
// campus events API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventsphere"

// ── Session metrics ───────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Labels:
//   - method: "operator" or "password"
//   - result: "success" or "failure"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts.",
	},
	[]string{"method", "result"},
)

// SignUpsTotal counts sign-ups.
// Label:
//   - result: "active", "pending_confirmation" or "failure"
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ups_total",
		Help:      "Total number of sign-up attempts.",
	},
	[]string{"result"},
)

// LiveSessions tracks client sessions held by this instance.
var LiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Current number of client sessions held in memory.",
	},
)

// SessionsSweptTotal counts idle sessions torn down by the sweeper.
var SessionsSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_swept_total",
		Help:      "Total number of idle sessions torn down.",
	},
)

// IdentityStreams tracks open identity event streams.
var IdentityStreams = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "identity_streams",
		Help:      "Current number of open identity event streams.",
	},
)

// AuthChangesTotal counts auth changes received from the change bus.
// Label:
//   - kind: "user_created", "signed_in", "token_refreshed", "signed_out", "user_updated"
var AuthChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_changes_total",
		Help:      "Total number of auth changes received, by kind.",
	},
	[]string{"kind"},
)

// ── Moderation metrics ────────────────────────────────────────────────────────

// EventVerificationsTotal counts verification decisions.
// Label:
//   - decision: "approved" or "rejected"
var EventVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_verifications_total",
		Help:      "Total number of event verification decisions.",
	},
	[]string{"decision"},
)

// RoleAssignmentsTotal counts role reassignments by target role.
var RoleAssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_assignments_total",
		Help:      "Total number of role reassignments, by assigned role.",
	},
	[]string{"role"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "registered" or "already_registered"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of event registrations, by outcome.",
	},
	[]string{"outcome"},
)

// EventsSubmittedTotal counts events submitted for verification.
var EventsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_submitted_total",
		Help:      "Total number of events submitted for verification.",
	},
)
