package ports

import (
	"context"
	"time"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// AlertFilter carries the query parameters for listing SOS alerts.
type AlertFilter struct {
	UserID     string // empty = every user
	ActiveOnly bool
}

// AlertCounts aggregates alert totals for platform statistics.
type AlertCounts struct {
	Total  int64
	Active int64
}

// AlertRepository defines persistence operations for SOS alerts.
type AlertRepository interface {
	// Create stores a new alert. It returns domain.ErrAlreadyActive when the
	// user already has an active alert.
	Create(ctx context.Context, a *domain.SOSAlert) error
	FindByID(ctx context.Context, id string) (*domain.SOSAlert, error)
	// FindActiveByUser returns domain.ErrAlertNotFound when the user has no
	// active alert.
	FindActiveByUser(ctx context.Context, userID string) (*domain.SOSAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]domain.SOSAlert, error)
	// Update replaces the stored alert only if its version still equals
	// expectedVersion; otherwise it returns domain.ErrConflict.
	Update(ctx context.Context, a *domain.SOSAlert, expectedVersion int64) error
	ListTriggeredBetween(ctx context.Context, from, to time.Time) ([]domain.SOSAlert, error)
	Count(ctx context.Context) (AlertCounts, error)
}

// NotificationLog persists per-contact fan-out outcomes.
type NotificationLog interface {
	Record(ctx context.Context, outcomes []domain.NotificationOutcome) error
}
