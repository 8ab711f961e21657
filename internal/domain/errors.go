// Package domain defines core types, interfaces, and errors for the house
// points platform.
package domain

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthorizationError indicates the actor lacks the capability for the
// requested operation. Never retried automatically.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// ValidationError indicates malformed or missing input. Violations lists
// every violated field, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// InvalidStateError indicates an operation not permitted in the
// certificate's current status, including lost concurrent races.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

// DuplicateEntryError indicates a ledger write collision: a point entry
// already exists for the certificate.
type DuplicateEntryError struct {
	Message string
}

func (e *DuplicateEntryError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAuthorization creates an AuthorizationError with a formatted message.
func ErrAuthorization(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a single violation.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Violations: []string{fmt.Sprintf(format, args...)}}
}

// ErrInvalidState creates an InvalidStateError with a formatted message.
func ErrInvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// ErrDuplicateEntry creates a DuplicateEntryError with a formatted message.
func ErrDuplicateEntry(format string, args ...interface{}) *DuplicateEntryError {
	return &DuplicateEntryError{Message: fmt.Sprintf(format, args...)}
}
