package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProfileNotFound means no profile exists for the user. Callers
	// treat this as "no profile yet", not as a failure.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrForbidden means the caller may not access the requested profile.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateProfile is the losing side of a concurrent first-write
	// race for the same user. Retrying the same upsert succeeds as an
	// update.
	ErrDuplicateProfile = errors.New("profile already exists")
)

// FieldError is one schema violation in an upsert payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
