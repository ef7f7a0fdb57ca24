package review

import "errors"

// Sentinel errors returned by the service and the Store implementations.
// Callers match with errors.Is; anything else coming out of a Store is a
// persistence failure and is propagated unchanged.
var (
	// ErrNotFound: the item or scope does not exist, or the item is not
	// owned by the scope the caller named.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate: an insert collided with an existing item that has the
	// same source text in the same scope (case-sensitive exact match).
	ErrDuplicate = errors.New("duplicate source text")

	// ErrConflict: a stats write lost the optimistic version check.
	// The caller should re-read and retry the whole operation.
	ErrConflict = errors.New("stats version conflict")

	// ErrAlreadyApplied: a review submission with this idempotency key was
	// applied before; the outcome has already been counted.
	ErrAlreadyApplied = errors.New("review already applied")
)
