// lifecycle/errors.go
package lifecycle

import "errors"

// Sentinel error kinds for lifecycle outcomes. Controllers map these onto
// HTTP statuses; none of them is retried automatically.
var (
	// ErrValidation covers missing or invalid input, including amounts that
	// exceed a withdrawal limit.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the request (or a related record) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor is not the creator/picker/admin the
	// operation requires, or attempted a self-pick.
	ErrForbidden = errors.New("forbidden")

	// ErrStateConflict means the operation was attempted from the wrong
	// status, e.g. picking a request that is no longer PENDING.
	ErrStateConflict = errors.New("state conflict")

	// ErrConflict means a concurrent transition won the race; the status
	// precondition no longer held at write time.
	ErrConflict = errors.New("request was modified concurrently")
)
