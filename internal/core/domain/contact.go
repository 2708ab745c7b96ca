package domain

import "time"

// EmergencyContact is a person to notify when its owner triggers an SOS alert.
type EmergencyContact struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"-" bson:"user_id"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone" bson:"phone"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	Relationship string    `json:"relationship" bson:"relationship"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
