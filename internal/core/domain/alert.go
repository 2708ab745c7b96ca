package domain

import "time"

// AlertStatus is the lifecycle state of an SOS alert.
type AlertStatus string

const (
	AlertActive      AlertStatus = "active"
	AlertDeactivated AlertStatus = "deactivated"
)

// SOSAlert is an emergency alert raised by a user. Alerts are never deleted;
// NotifiedContactIDs is fixed when the alert is triggered.
type SOSAlert struct {
	ID                 string         `json:"id" bson:"_id"`
	UserID             string         `json:"user_id" bson:"user_id"`
	Location           LocationSample `json:"location" bson:"location"`
	Notes              string         `json:"notes,omitempty" bson:"notes,omitempty"`
	Status             AlertStatus    `json:"status" bson:"status"`
	TriggeredAt        time.Time      `json:"triggered_at" bson:"triggered_at"`
	DeactivatedAt      *time.Time     `json:"deactivated_at,omitempty" bson:"deactivated_at,omitempty"`
	DeactivatedBy      string         `json:"deactivated_by,omitempty" bson:"deactivated_by,omitempty"`
	NotifiedContactIDs []string       `json:"notified_contact_ids" bson:"notified_contact_ids"`
	Version            int64          `json:"version" bson:"version"`
}

// IsActive reports whether the alert has not been deactivated.
func (a *SOSAlert) IsActive() bool {
	return a.Status == AlertActive
}
