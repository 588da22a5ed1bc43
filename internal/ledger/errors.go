package ledger

import "errors"

var (
	// ErrValidation marks malformed input, detected before any store call.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced vehicle or trip that does not exist
	// within the caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePlate marks a plate identifier already used by the same
	// owner. Kept distinct from ErrStore so callers can present a specific
	// message.
	ErrDuplicatePlate = errors.New("plate already in use")

	// ErrStore marks an underlying store failure.
	ErrStore = errors.New("store failure")
)
