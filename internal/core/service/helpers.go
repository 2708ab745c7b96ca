package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// utcNow is truncated to milliseconds so values survive a round trip through
// MongoDB unchanged.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newID() string {
	return uuid.NewString()
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
