package recurring

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a recurring rule does not exist.
var ErrNotFound = errors.New("recurring rule not found")

// ValidationError describes a malformed rule parameter. It is raised at
// rule creation/update time; generation trusts rules that passed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
