package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuth               = errors.New("authentication failed")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid login credentials", ErrAuth)
	ErrEmailNotConfirmed  = fmt.Errorf("%w: email not confirmed", ErrAuth)
	ErrNoSession          = fmt.Errorf("%w: no active session", ErrAuth)
	ErrInvalidToken       = fmt.Errorf("%w: invalid confirmation token", ErrAuth)

	// ErrConnectivity replaces low-level network failures with a message a user can act on.
	ErrConnectivity = errors.New("unable to reach the server, check your network connection and try again")

	ErrConflict          = errors.New("conflict")
	ErrAlreadyRegistered = fmt.Errorf("%w: already registered for this event", ErrConflict)
	ErrUserExists        = fmt.Errorf("%w: user already exists", ErrConflict)

	ErrPermission = errors.New("permission denied")

	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrEventNotFound   = fmt.Errorf("event %w", ErrNotFound)
	ErrSocietyNotFound = fmt.Errorf("society %w", ErrNotFound)

	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRole  = fmt.Errorf("%w: unknown role", ErrInvalidInput)

	ErrGeneratorUnavailable = errors.New("text generation is not configured")
)

// BackendError carries a store failure whose message is shown to the caller verbatim.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }
