package service

import "errors"

// Error taxonomy shared by all services. Handlers translate these sentinels
// into HTTP status codes; anything not wrapping one of them is surfaced as a
// store failure (500). Wrap with fmt.Errorf("%w: ...", ErrValidation) to carry
// a user-facing reason.
var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrValidation marks user-correctable input problems (bad upload type or size).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent resource. For public share lookups it also
	// covers expired and revoked links, so callers cannot distinguish them.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden marks an authenticated requester acting on a resource they
	// do not own.
	ErrForbidden = errors.New("access denied")
)
