package ports

import (
	"context"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// Scope selects whose records a list call returns.
type Scope string

const (
	ScopeOwn Scope = "own"
	ScopeAll Scope = "all"
)

// CreateIncidentInput carries all data needed to file a new incident.
type CreateIncidentInput struct {
	Type           domain.IncidentType
	Description    string
	LocationLabel  string
	Location       *domain.LocationSample // optional
	IsAnonymous    bool
	IdempotencyKey string
}

// IncidentResult wraps a created incident. AlreadyExisted is set on an
// idempotent replay.
type IncidentResult struct {
	Incident       *domain.IncidentCase
	AlreadyExisted bool
}

// ListIncidentsInput scopes an incident listing.
type ListIncidentsInput struct {
	Scope  Scope
	Status domain.IncidentStatus // optional
}

// SetStatusInput carries a moderation decision.
type SetStatusInput struct {
	Status domain.IncidentStatus
	Notes  string
}

type IncidentService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateIncidentInput) (*IncidentResult, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.IncidentCase, error)
	List(ctx context.Context, actor domain.Actor, in ListIncidentsInput) ([]domain.IncidentCase, error)
	AppendEvidence(ctx context.Context, actor domain.Actor, id, ref string) (*domain.IncidentCase, error)
	SetStatus(ctx context.Context, actor domain.Actor, id string, in SetStatusInput) (*domain.IncidentCase, error)
}

// ContactInput carries the fields of a new emergency contact.
type ContactInput struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
}

type ContactService interface {
	Add(ctx context.Context, actor domain.Actor, in ContactInput) (*domain.EmergencyContact, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.EmergencyContact, error)
	Remove(ctx context.Context, actor domain.Actor, id string) error
}
