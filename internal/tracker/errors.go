package tracker

import "errors"

var (
	// ErrNotFound is returned when a referenced user or activity is absent.
	ErrNotFound = errors.New("tracker: not found")
	// ErrDuplicateUsername is returned when a username is already taken. The
	// store maps its uniqueness-constraint violation to this error so two
	// concurrent creates yield exactly one success.
	ErrDuplicateUsername = errors.New("tracker: username already exists")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not distinguish between the two.
	ErrInvalidCredentials = errors.New("tracker: invalid credentials")
	// ErrInvalidInput is wrapped with a human-readable reason and reported
	// before any store mutation is attempted.
	ErrInvalidInput = errors.New("tracker: invalid input")
)
