package store

import (
	"context"

	"github.com/wordpath/wordpath-api/internal/domain"
)

// SessionMemoryStore defines the durable persistence contract for session
// memory records.
//
// Implementations must treat ordinary absence as ErrMemoryNotFound, never as
// a failure, and must bound every call with a timeout so an unreachable
// backing store degrades instead of hanging the caller. Connectivity and
// schema errors are reported wrapped in ErrStoreUnavailable.
type SessionMemoryStore interface {
	// Fetch retrieves the record for a session ID.
	// Returns ErrMemoryNotFound if no record exists for the session.
	Fetch(ctx context.Context, sessionID string) (*domain.SessionMemory, error)

	// Upsert inserts or replaces the record for its session ID. Repeating
	// the call with the same record produces the same stored state plus a
	// refreshed updated_at timestamp.
	Upsert(ctx context.Context, memory *domain.SessionMemory) error
}
