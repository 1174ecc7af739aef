package incentive

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel every ValidationError unwraps to.
var ErrInvalidInput = errors.New("invalid incentive input")

// ValidationError names the offending input field. Degenerate data (no
// rows, no accounts, no matching rule) never produces one; only caller
// misuse does.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err came from input validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
