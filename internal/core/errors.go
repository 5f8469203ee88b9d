package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Operations that hit it must leave all stores unchanged.
var ErrNotFound = errors.New("not found")

// ValidationError rejects input outside domain bounds before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StateConflictError marks an attempted transition the dispute state
// machine forbids (e.g. resolving an already-resolved dispute).
type StateConflictError struct {
	Message string
}

func (e *StateConflictError) Error() string {
	return e.Message
}

func NewStateConflictError(format string, args ...interface{}) error {
	return &StateConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsStateConflict reports whether err is a StateConflictError.
func IsStateConflict(err error) bool {
	var se *StateConflictError
	return errors.As(err, &se)
}
