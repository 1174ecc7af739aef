package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks request data the service refused. Handlers answer it
// with 400.
var ErrValidation = errors.New("validation failed")

type validationErr struct {
	field   string
	message string
}

func (e *validationErr) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.message)
}

func (e *validationErr) Unwrap() error {
	return ErrValidation
}

func invalidField(field, format string, args ...any) error {
	return &validationErr{field: field, message: fmt.Sprintf(format, args...)}
}

// ErrNotIncentivised is returned for users the incentive program does not
// cover. Handlers answer it with 404.
var ErrNotIncentivised = errors.New("user is not covered by incentives")
