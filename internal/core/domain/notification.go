package domain

import "time"

// NotificationStatus is the result of a single contact's notification attempt.
type NotificationStatus string

const (
	NotificationAccepted NotificationStatus = "accepted"
	NotificationFailed   NotificationStatus = "failed"
	NotificationSkipped  NotificationStatus = "skipped"
	NotificationPending  NotificationStatus = "pending"
)

// NotificationOutcome is the per-contact result of an SOS fan-out.
type NotificationOutcome struct {
	AlertID     string             `json:"alert_id" bson:"alert_id"`
	ContactID   string             `json:"contact_id" bson:"contact_id"`
	Channel     string             `json:"channel,omitempty" bson:"channel,omitempty"`
	Status      NotificationStatus `json:"status" bson:"status"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
	AttemptedAt time.Time          `json:"attempted_at" bson:"attempted_at"`
}

// DispatchReport summarises a fan-out. Failed > 0 on a successful trigger is
// a partial failure, not an error.
type DispatchReport struct {
	Accepted int                   `json:"accepted"`
	Failed   int                   `json:"failed"`
	Skipped  int                   `json:"skipped"`
	Pending  int                   `json:"pending"`
	Outcomes []NotificationOutcome `json:"outcomes"`
}

// Add folds one outcome into the report.
func (r *DispatchReport) Add(o NotificationOutcome) {
	switch o.Status {
	case NotificationAccepted:
		r.Accepted++
	case NotificationFailed:
		r.Failed++
	case NotificationSkipped:
		r.Skipped++
	case NotificationPending:
		r.Pending++
	}
	r.Outcomes = append(r.Outcomes, o)
}
