// Package client is the embeddable client core for the booking platform: a
// persisted session store, a credentialed API gateway, a TTL cache with a
// declared invalidation table, the booking lifecycle controller and the role
// authorization gate. The server stays the source of truth; this package
// keeps a dashboard consistent with it.
package client

import (
	"errors"
	"fmt"
)

// Error taxonomy. Validation errors never leave the client; the rest map
// from server responses and transport failures.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict with server state")
	ErrTransient       = errors.New("transient request failure")

	// ErrMutationInFlight rejects a second mutation on a booking whose first
	// mutation has not resolved yet.
	ErrMutationInFlight = errors.New("a mutation for this booking is already in flight")
)

// APIError carries the server's message alongside its taxonomy kind.
type APIError struct {
	Kind    error
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func validationErr(format string, args ...any) error {
	return &APIError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
