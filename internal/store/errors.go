package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Absence is an expected state, not a failure.
	ErrNotFound = errors.New("entity not found")

	// ErrMemoryNotFound indicates that no session memory record exists for
	// the requested session ID.
	ErrMemoryNotFound = fmt.Errorf("%w: session memory", ErrNotFound)

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached: connectivity failures, timeouts, an open circuit breaker, or
	// absent configuration. Callers are expected to degrade rather than
	// propagate it.
	ErrStoreUnavailable = errors.New("durable store unavailable")

	// ErrInvalidRecord is returned when a record fails validation before
	// being stored. Check the wrapped error for details.
	ErrInvalidRecord = errors.New("invalid session memory record")
)

// IsNotFound reports whether the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether the error indicates the backing store could
// not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
