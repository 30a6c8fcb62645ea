package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrPermissionDenied = errors.New("you do not have permission to access this booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrPastCheckIn      = errors.New("cannot cancel booking after check-in date")
)

// ValidationError rejects malformed input before any side effect.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) ValidationError {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// EntityNotFoundError reports a missing inventory entity (flight, hotel room
// or car).
type EntityNotFoundError struct {
	Kind string
	ID   string
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InsufficientInventoryError is a business-rule rejection, safe to show the
// user.
type InsufficientInventoryError struct {
	Resource  string
	Requested int
	Available int
}

func (e InsufficientInventoryError) Error() string {
	return fmt.Sprintf("Insufficient %s available. Requested: %d, Available: %d",
		e.Resource, e.Requested, e.Available)
}

// TransactionFailedError wraps lock timeouts and unexpected store faults. The
// unit of work has been rolled back in full when this is returned.
type TransactionFailedError struct {
	Err error
}

func (e TransactionFailedError) Error() string {
	return fmt.Sprintf("booking transaction failed: %s", e.Err)
}

func (e TransactionFailedError) Unwrap() error {
	return e.Err
}
