package access

import "github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonInvalidState    Reason = "invalid_state"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Err converts a denial into the matching domain error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	case ReasonInvalidState:
		return domain.ErrInvalidState
	default:
		return domain.ErrForbidden
	}
}
