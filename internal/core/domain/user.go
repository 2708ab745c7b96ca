package domain

import "time"

// Role is one of the closed set of platform roles.
type Role string

const (
	RoleReporter  Role = "reporter"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleReporter, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User models an account on the platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the identity on whose behalf a core operation runs. It is always
// passed explicitly; the zero value is an unauthenticated caller.
type Actor struct {
	UserID string
	Role   Role
}

// Authenticated reports whether the actor carries a usable identity.
func (a Actor) Authenticated() bool {
	return a.UserID != "" && a.Role.Valid()
}
