package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/access"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// Alert lifecycle events published to the alert stream.
const (
	EventAlertTriggered   = "sos.triggered"
	EventAlertDeactivated = "sos.deactivated"
)

// TriggerLock serializes SOS triggers per user (Redis).
type TriggerLock interface {
	// Acquire returns domain.ErrConflict when another trigger for the same
	// user is in progress. The returned func releases the lock.
	Acquire(ctx context.Context, userID string) (release func(), err error)
}

// AlertGate stops new notification attempts once an alert is deactivated (Redis).
type AlertGate interface {
	Close(ctx context.Context, alertID string) error
	Open(ctx context.Context, alertID string) error
}

// AlertEvents publishes alert lifecycle events to downstream consumers.
type AlertEvents interface {
	Publish(ctx context.Context, event string, alert *domain.SOSAlert) error
}

// Notifier fans an alert out to the given contacts.
type Notifier interface {
	Dispatch(ctx context.Context, alert *domain.SOSAlert, contacts []domain.EmergencyContact) domain.DispatchReport
}

// SOSDeps groups the collaborators of SOSService.
type SOSDeps struct {
	Alerts   ports.AlertRepository
	Contacts ports.ContactRepository
	Lock     TriggerLock
	Gate     AlertGate
	Events   AlertEvents
	Notifier Notifier
}

type SOSService struct {
	SOSDeps
	log zerolog.Logger
	now func() time.Time
}

func NewSOSService(deps SOSDeps, log zerolog.Logger) *SOSService {
	return &SOSService{SOSDeps: deps, log: log, now: utcNow}
}

// Trigger raises an SOS alert for the actor and notifies every emergency
// contact. The alert is stored before any notification is attempted and
// notification failures never roll it back.
func (s *SOSService) Trigger(ctx context.Context, actor domain.Actor, in ports.TriggerInput) (*ports.TriggerResult, error) {
	if err := access.Authorize(actor, access.CreateAlert, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return nil, err
	}

	// 1. Location is mandatory and must be in range.
	if in.Location == nil {
		return nil, fmt.Errorf("trigger sos: %w", domain.ErrLocationRequired)
	}
	if !in.Location.Valid() {
		return nil, fmt.Errorf("trigger sos: %w: latitude must be within [-90, 90] and longitude within [-180, 180]", domain.ErrLocationRequired)
	}

	// 2. One trigger per user at a time, until the alert is stored.
	release, err := s.Lock.Acquire(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("trigger sos: %w", err)
	}
	release = sync.OnceFunc(release)
	defer release()

	// 3. At most one active alert per user.
	active, err := s.Alerts.FindActiveByUser(ctx, actor.UserID)
	switch {
	case err == nil:
		s.log.Info().Str("user_id", actor.UserID).Str("alert_id", active.ID).Msg("sos trigger rejected, alert already active")
		return nil, domain.ErrAlreadyActive
	case !errors.Is(err, domain.ErrAlertNotFound):
		return nil, fmt.Errorf("trigger sos: %w", err)
	}

	// 4. Snapshot the contact directory.
	contacts, err := s.Contacts.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("trigger sos: load contacts: %w", err)
	}
	contactIDs := make([]string, 0, len(contacts))
	for _, c := range contacts {
		contactIDs = append(contactIDs, c.ID)
	}

	// 5. Durable alert record.
	alert := &domain.SOSAlert{
		ID:                 newID(),
		UserID:             actor.UserID,
		Location:           *in.Location,
		Notes:              strings.TrimSpace(in.Notes),
		Status:             domain.AlertActive,
		TriggeredAt:        s.now(),
		NotifiedContactIDs: contactIDs,
		Version:            1,
	}
	if err := s.Alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("trigger sos: %w", err)
	}
	release()

	// 6. Downstream event (non-fatal).
	if err := s.Events.Publish(ctx, EventAlertTriggered, alert); err != nil {
		s.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("failed to publish alert event")
	}

	// 7. Fan-out to the snapshot.
	var report domain.DispatchReport
	if len(contacts) > 0 {
		report = s.Notifier.Dispatch(ctx, alert, contacts)
	}

	s.log.Info().
		Str("alert_id", alert.ID).
		Str("user_id", actor.UserID).
		Int("contacts", len(contacts)).
		Int("accepted", report.Accepted).
		Int("failed", report.Failed).
		Int("pending", report.Pending).
		Msg("sos alert triggered")

	return &ports.TriggerResult{Alert: alert, NotifiedCount: report.Accepted, Report: report}, nil
}

// Deactivate ends an active alert. Notification attempts already in flight
// finish; none start once the gate is closed.
func (s *SOSService) Deactivate(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	alert, err := s.Alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.DeactivateAlert, access.Target{OwnerID: alert.UserID}).Err(); err != nil {
		return nil, err
	}
	if !alert.IsActive() {
		return nil, domain.ErrAlreadyDeactivated
	}

	// The gate closes before the write so no attempt can start after the
	// deactivation is recorded. It reopens if the write does not land.
	if err := s.Gate.Close(ctx, alert.ID); err != nil {
		s.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("failed to close alert gate")
	}

	now := s.now()
	expected := alert.Version
	alert.Status = domain.AlertDeactivated
	alert.DeactivatedAt = &now
	alert.DeactivatedBy = actor.UserID
	alert.Version++

	if err := s.Alerts.Update(ctx, alert, expected); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			if current, findErr := s.Alerts.FindByID(ctx, id); findErr == nil && !current.IsActive() {
				return nil, domain.ErrAlreadyDeactivated
			}
		}
		if openErr := s.Gate.Open(ctx, alert.ID); openErr != nil {
			s.log.Warn().Err(openErr).Str("alert_id", alert.ID).Msg("failed to reopen alert gate")
		}
		return nil, fmt.Errorf("deactivate sos: %w", err)
	}

	if err := s.Events.Publish(ctx, EventAlertDeactivated, alert); err != nil {
		s.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("failed to publish alert event")
	}

	s.log.Info().Str("alert_id", alert.ID).Str("actor_id", actor.UserID).Msg("sos alert deactivated")
	return alert, nil
}

func (s *SOSService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	alert, err := s.Alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ReadAlert, access.Target{OwnerID: alert.UserID}).Err(); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *SOSService) List(ctx context.Context, actor domain.Actor, in ports.ListAlertsInput) ([]domain.SOSAlert, error) {
	filter := ports.AlertFilter{ActiveOnly: in.ActiveOnly}

	switch in.Scope {
	case ports.ScopeOwn, "":
		if err := access.Authorize(actor, access.ReadAlert, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
			return nil, err
		}
		filter.UserID = actor.UserID
	case ports.ScopeAll:
		if err := access.Authorize(actor, access.ListAll, access.Target{}).Err(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrValidation, in.Scope)
	}

	alerts, err := s.Alerts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}
