package services

import "errors"

// Error taxonomy of the hierarchy engine. Handlers map these onto HTTP
// status codes with errors.Is; operations wrap them with detail via %w.
var (
	// ErrInvalidInput marks a user-supplied name or path that failed
	// validation. Always rejected before any mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks a name collision at the same location.
	ErrConflict = errors.New("name already exists at this location")
	// ErrNotFound marks an absent identifier or (name, path) pair.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failed physical filesystem operation.
	ErrStorage = errors.New("storage operation failed")
)
