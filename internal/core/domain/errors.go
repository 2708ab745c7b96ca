package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrInvalidTransition  = fmt.Errorf("%w: invalid status transition", ErrInvalidState)
	ErrInvalidStatus      = errors.New("unknown status")
	ErrConflict           = errors.New("record was modified concurrently")
	ErrLocationRequired   = errors.New("a valid location is required")
	ErrAlreadyActive      = errors.New("an active sos alert already exists")
	ErrAlreadyDeactivated = errors.New("sos alert already deactivated")
	ErrDuplicateKey       = errors.New("idempotency key already used")
)

var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrAlertNotFound    = errors.New("sos alert not found")
	ErrContactNotFound  = errors.New("emergency contact not found")
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
