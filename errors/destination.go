package errors

import (
	"errors"
	"fmt"
)

var ErrDestination = errors.New("destination error")

// DestinationError wraps connection failures, non-2xx responses, query
// execution errors and timeouts. Subject to the step's onError policy.
type DestinationError struct {
	Destination string
	Timeout     bool
	Err         error
}

func (e *DestinationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("destination %s timed out: %v", e.Destination, e.Err)
	}
	return fmt.Sprintf("destination %s failed: %v", e.Destination, e.Err)
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

func (e *DestinationError) Is(target error) bool {
	return target == ErrDestination
}

func NewDestinationError(destination string, err error) error {
	return &DestinationError{
		Destination: destination,
		Err:         err,
	}
}

func NewDestinationTimeoutError(destination string, err error) error {
	return &DestinationError{
		Destination: destination,
		Timeout:     true,
		Err:         err,
	}
}
