package ports

import (
	"context"
	"time"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// IncidentFilter carries the query parameters for listing incidents.
type IncidentFilter struct {
	ReporterID string                // empty = every reporter
	Status     domain.IncidentStatus // optional
}

// IncidentRepository defines persistence operations for incident cases.
type IncidentRepository interface {
	Create(ctx context.Context, c *domain.IncidentCase) error
	FindByID(ctx context.Context, id string) (*domain.IncidentCase, error)
	FindByIdempotencyKey(ctx context.Context, reporterID, key string) (*domain.IncidentCase, error)
	List(ctx context.Context, filter IncidentFilter) ([]domain.IncidentCase, error)
	// Update replaces the stored case only if its version still equals
	// expectedVersion; otherwise it returns domain.ErrConflict.
	Update(ctx context.Context, c *domain.IncidentCase, expectedVersion int64) error
	// ListLocated returns cases that carry a location sample and were created
	// inside [from, to]. Zero bounds are open.
	ListLocated(ctx context.Context, incidentType domain.IncidentType, from, to time.Time) ([]domain.IncidentCase, error)
	CountByStatus(ctx context.Context) (map[domain.IncidentStatus]int64, error)
}
