package errors

import (
	"errors"
	"fmt"
)

var ErrMapping = errors.New("mapping error")

type MappingReason string

const (
	ReasonMissingRequiredField MappingReason = "missing_required_field"
	ReasonTypeCoercion         MappingReason = "type_coercion"
)

// MappingError aborts the current run regardless of the step's onError
// policy: mapping correctness is not retryable.
type MappingError struct {
	Reason MappingReason
	Field  string
	Err    error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping error [%s] on field %q: %v", e.Reason, e.Field, e.Err)
	}
	return fmt.Sprintf("mapping error [%s] on field %q", e.Reason, e.Field)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

func (e *MappingError) Is(target error) bool {
	return target == ErrMapping
}

func NewMappingError(reason MappingReason, field string, err error) error {
	return &MappingError{
		Reason: reason,
		Field:  field,
		Err:    err,
	}
}
