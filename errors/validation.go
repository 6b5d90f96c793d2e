package errors

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation error")

// ValidationError marks malformed IR detected at load time. It should not
// occur when compiler invariants hold; it is fatal to the run.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{
		Detail: fmt.Sprintf(format, args...),
	}
}
