// Package metrics defines and registers all custom Prometheus metrics for the
// SafeSpace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "safespace"

// ── Incident metrics ──────────────────────────────────────────────────────────

// IncidentsCreatedTotal counts newly filed incident cases.
// Label:
//   - type: the incident type (e.g. "harassment", "stalking")
var IncidentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incidents_created_total",
		Help:      "Total number of incident cases created, by incident type.",
	},
	[]string{"type"},
)

// IncidentStatusUpdatesTotal counts accepted moderation decisions, including
// idempotent re-applies of the current status.
// Label:
//   - status: the requested status (e.g. "under_review", "resolved")
var IncidentStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incident_status_updates_total",
		Help:      "Total number of accepted incident status updates, by requested status.",
	},
	[]string{"status"},
)

// EvidenceAppendedTotal counts evidence references attached to cases.
var EvidenceAppendedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evidence_appended_total",
		Help:      "Total number of evidence references appended to incident cases.",
	},
)

// ── SOS metrics ───────────────────────────────────────────────────────────────

// SOSTriggeredTotal counts alerts that were stored and fanned out.
var SOSTriggeredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sos_triggered_total",
		Help:      "Total number of SOS alerts raised.",
	},
)

// SOSRejectedTotal counts trigger attempts that did not produce an alert.
// Label:
//   - reason: "location_required", "already_active", "conflict" or "error"
var SOSRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sos_rejected_total",
		Help:      "Total number of SOS triggers rejected, by reason.",
	},
	[]string{"reason"},
)

// NotificationAttemptsTotal counts per-channel delivery attempts.
// Labels:
//   - channel: "sms", "email" or "push"
//   - result: "accepted", "failed" or "skipped"
var NotificationAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_attempts_total",
		Help:      "Total number of emergency-contact notification attempts.",
	},
	[]string{"channel", "result"},
)

// DispatchDuration measures how long a trigger waits for its fan-out.
// Label:
//   - outcome: "complete" when every attempt finished, "partial" when some
//     were still pending at the acknowledgement deadline
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time from fan-out start to acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Analytics metrics ─────────────────────────────────────────────────────────

// HotspotPointsReturned observes the size of hotspot responses.
var HotspotPointsReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hotspot_points_returned",
		Help:      "Number of points returned per hotspot query.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
)
