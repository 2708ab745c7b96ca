package ports

import (
	"context"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// RegisterInput carries the self-service sign-up fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// ProvisionInput creates or updates a privileged account from operator tooling.
type ProvisionInput struct {
	RegisterInput
	Role domain.Role
}

// ProfileInput carries self-service profile edits. Empty fields keep their
// current value.
type ProfileInput struct {
	Name  string
	Phone string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Provision creates the account or, if the email exists, resets its role
	// and password. The boolean reports whether the account was created.
	Provision(ctx context.Context, in ProvisionInput) (*domain.User, bool, error)
	Profile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileInput) (*domain.User, error)
}
