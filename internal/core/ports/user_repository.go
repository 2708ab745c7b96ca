package ports

import (
	"context"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update overwrites the mutable profile fields (name, phone, role, password hash).
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)
}

// ContactRepository defines persistence for emergency contacts. Every call is
// scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.EmergencyContact) error
	ListByUser(ctx context.Context, userID string) ([]domain.EmergencyContact, error)
	Delete(ctx context.Context, userID, contactID string) error
}
