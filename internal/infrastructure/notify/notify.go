// Package notify delivers SOS alerts to emergency contacts over outbound
// channels (SMS gateway, email API, MQTT push) with bounded concurrency.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// Channel names accepted in NOTIFY_CHANNELS.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// Channel is a single outbound delivery mechanism.
type Channel interface {
	Name() string
	// Supports reports whether the contact has an address on this channel.
	Supports(contact domain.EmergencyContact) bool
	Send(ctx context.Context, msg Message) error
}

// Message is what a contact receives for one alert.
type Message struct {
	AlertID     string                  `json:"alert_id"`
	UserID      string                  `json:"user_id"`
	Contact     domain.EmergencyContact `json:"contact"`
	Latitude    float64                 `json:"latitude"`
	Longitude   float64                 `json:"longitude"`
	Notes       string                  `json:"notes,omitempty"`
	TriggeredAt time.Time               `json:"triggered_at"`
}

func newMessage(alert *domain.SOSAlert, contact domain.EmergencyContact) Message {
	return Message{
		AlertID:     alert.ID,
		UserID:      alert.UserID,
		Contact:     contact,
		Latitude:    alert.Location.Latitude,
		Longitude:   alert.Location.Longitude,
		Notes:       alert.Notes,
		TriggeredAt: alert.TriggeredAt,
	}
}

// Subject is the short headline used by channels that carry one.
func (m Message) Subject() string {
	return "SOS: someone who listed you as an emergency contact needs help"
}

// Text renders the plain-text body shared by SMS and email.
func (m Message) Text() string {
	body := fmt.Sprintf(
		"SOS alert at %s. Last known location: https://maps.google.com/?q=%.6f,%.6f",
		m.TriggeredAt.UTC().Format(time.RFC3339), m.Latitude, m.Longitude,
	)
	if m.Notes != "" {
		body += "\nNote: " + m.Notes
	}
	return body
}
