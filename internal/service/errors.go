package service

import (
	"errors"
	"fmt"
)

// Error kinds. Transports map these to status codes; every error
// returned by a service wraps exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrConfiguration      = errors.New("service misconfigured")
	ErrUnauthenticated    = errors.New("caller not authenticated")
)

// Validation errors.
var (
	ErrInvalidPageSize = fmt.Errorf("%w: page_size must be greater than zero", ErrValidation)
	ErrInvalidPage     = fmt.Errorf("%w: page must be at least 1", ErrValidation)
	ErrPageOutOfRange  = fmt.Errorf("%w: page window out of range", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrMissingName     = fmt.Errorf("%w: first_name and last_name are required", ErrValidation)
	ErrInvalidToken    = fmt.Errorf("%w: malformed invitation token", ErrValidation)
)

// Lookup errors.
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("invitation %w", ErrNotFound)
)

// unavailable wraps a backend failure so callers can match ErrBackendUnavailable
// while the cause stays available for logging.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, err)
}
