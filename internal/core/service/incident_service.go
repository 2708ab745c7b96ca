package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/access"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

type IncidentService struct {
	repo ports.IncidentRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewIncidentService(repo ports.IncidentRepository, log zerolog.Logger) *IncidentService {
	return &IncidentService{repo: repo, log: log, now: utcNow}
}

// Create files a new incident for the actor. If an idempotency key is
// provided and already seen for this reporter, the previously created case is
// returned without side effects.
func (s *IncidentService) Create(ctx context.Context, actor domain.Actor, in ports.CreateIncidentInput) (*ports.IncidentResult, error) {
	if err := access.Authorize(actor, access.CreateIncident, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return nil, err
	}
	if err := validateIncident(in); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, actor.UserID, in.IdempotencyKey)
		switch {
		case err == nil:
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("incident_id", existing.ID).Msg("idempotent replay")
			return &ports.IncidentResult{Incident: existing, AlreadyExisted: true}, nil
		case !errors.Is(err, domain.ErrIncidentNotFound):
			return nil, fmt.Errorf("create incident: %w", err)
		}
	}

	now := s.now()
	c := &domain.IncidentCase{
		ID:             newID(),
		ReporterID:     actor.UserID,
		Type:           in.Type,
		Description:    strings.TrimSpace(in.Description),
		LocationLabel:  strings.TrimSpace(in.LocationLabel),
		Location:       in.Location,
		IsAnonymous:    in.IsAnonymous,
		Status:         domain.StatusNew,
		EvidenceRefs:   []string{},
		Audit:          []domain.AuditEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
		IdempotencyKey: in.IdempotencyKey,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			// A concurrent request with the same key won the insert.
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, actor.UserID, in.IdempotencyKey)
			if findErr == nil {
				s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("incident_id", existing.ID).Msg("idempotent replay")
				return &ports.IncidentResult{Incident: existing, AlreadyExisted: true}, nil
			}
			err = findErr
		}
		s.log.Error().Err(err).Msg("failed to create incident")
		return nil, fmt.Errorf("create incident: %w", err)
	}

	s.log.Info().Str("incident_id", c.ID).Str("incident_type", string(c.Type)).Bool("anonymous", c.IsAnonymous).Msg("incident created")
	return &ports.IncidentResult{Incident: c}, nil
}

func validateIncident(in ports.CreateIncidentInput) error {
	switch {
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown incident_type %q", domain.ErrValidation, in.Type)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case strings.TrimSpace(in.LocationLabel) == "":
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	case in.Location != nil && !in.Location.Valid():
		return fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	return nil
}

// Get returns a single case, withholding the reporter of anonymous cases from
// actors who may not see it.
func (s *IncidentService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.IncidentCase, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ReadIncident, access.Target{OwnerID: c.ReporterID}).Err(); err != nil {
		return nil, err
	}

	v := view(actor, *c)
	return &v, nil
}

func (s *IncidentService) List(ctx context.Context, actor domain.Actor, in ports.ListIncidentsInput) ([]domain.IncidentCase, error) {
	filter := ports.IncidentFilter{Status: in.Status}

	switch in.Scope {
	case ports.ScopeOwn, "":
		if err := access.Authorize(actor, access.ReadIncident, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
			return nil, err
		}
		filter.ReporterID = actor.UserID
	case ports.ScopeAll:
		if err := access.Authorize(actor, access.ListAll, access.Target{}).Err(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrValidation, in.Scope)
	}

	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}

	cases, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	for i := range cases {
		cases[i] = view(actor, cases[i])
	}
	return cases, nil
}

// AppendEvidence attaches an opaque file reference to the actor's own case
// while it is still new or under review.
func (s *IncidentService) AppendEvidence(ctx context.Context, actor domain.Actor, id, ref string) (*domain.IncidentCase, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := access.Target{OwnerID: c.ReporterID, IncidentStatus: c.Status}
	if err := access.Authorize(actor, access.AppendEvidence, target).Err(); err != nil {
		return nil, fmt.Errorf("append evidence: %w (status %s)", err, c.Status)
	}
	if !domain.ValidEvidenceRef(ref) {
		return nil, fmt.Errorf("%w: malformed evidence reference", domain.ErrValidation)
	}

	expected := c.Version
	c.EvidenceRefs = append(c.EvidenceRefs, ref)
	c.UpdatedAt = s.now()
	c.Version++

	if err := s.repo.Update(ctx, c, expected); err != nil {
		return nil, fmt.Errorf("append evidence: %w", err)
	}

	s.log.Info().Str("incident_id", c.ID).Int("evidence_count", len(c.EvidenceRefs)).Msg("evidence appended")
	return c, nil
}

// SetStatus applies a moderation transition. Re-applying the current status
// is a no-op that leaves the audit trail and updated_at untouched.
func (s *IncidentService) SetStatus(ctx context.Context, actor domain.Actor, id string, in ports.SetStatusInput) (*domain.IncidentCase, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 1. Role gate.
	if err := access.Authorize(actor, access.SetIncidentStatus, access.Target{OwnerID: c.ReporterID, IncidentStatus: c.Status}).Err(); err != nil {
		return nil, err
	}

	// 2. Unknown target status.
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}

	// 3. Idempotent re-apply.
	if in.Status == c.Status {
		v := view(actor, *c)
		return &v, nil
	}

	// 4. State machine edge.
	if !c.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("set status: %w (from %s to %s)", domain.ErrInvalidTransition, c.Status, in.Status)
	}

	now := s.now()
	from := c.Status
	expected := c.Version
	c.Status = in.Status
	c.UpdatedAt = now
	c.Version++
	c.Audit = append(c.Audit, domain.AuditEntry{
		ActorID: actor.UserID,
		From:    from,
		To:      in.Status,
		At:      now,
		Notes:   strings.TrimSpace(in.Notes),
	})

	if err := s.repo.Update(ctx, c, expected); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	s.log.Info().
		Str("incident_id", c.ID).
		Str("from", string(from)).
		Str("to", string(in.Status)).
		Str("actor_id", actor.UserID).
		Msg("incident status changed")

	v := view(actor, *c)
	return &v, nil
}

func view(actor domain.Actor, c domain.IncidentCase) domain.IncidentCase {
	if c.IsAnonymous && !access.Authorize(actor, access.RevealReporter, access.Target{OwnerID: c.ReporterID}).Allowed {
		return c.Redacted()
	}
	return c
}
