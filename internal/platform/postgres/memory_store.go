package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/wordpath/wordpath-api/internal/domain"
	"github.com/wordpath/wordpath-api/internal/store"
)

// Circuit breaker defaults for the durable store. Three consecutive
// failures open the circuit; it half-opens after the timeout and closes
// again after two successful probes.
const (
	breakerMaxFailures       = 3
	breakerTimeout           = 30 * time.Second
	breakerHalfOpenSuccesses = 2
)

// defaultQueryTimeout bounds every store call so an unreachable database
// degrades instead of hanging the caller.
const defaultQueryTimeout = 3 * time.Second

// SessionMemoryStore implements store.SessionMemoryStore on PostgreSQL.
// Records are stored as JSONB blobs in a single table keyed by session ID.
//
// All calls are routed through a circuit breaker so a down database fails
// fast rather than spending the full query timeout on every request.
type SessionMemoryStore struct {
	db      store.DBTX
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// Ensure SessionMemoryStore implements store.SessionMemoryStore.
var _ store.SessionMemoryStore = (*SessionMemoryStore)(nil)

// NewSessionMemoryStore creates a PostgreSQL-backed session memory store.
// The database handle must be initialized and managed by the caller.
// If logger is nil, the default logger is used.
func NewSessionMemoryStore(db store.DBTX, logger *slog.Logger) *SessionMemoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "session_memory_store"))

	settings := gobreaker.Settings{
		Name:        "session-memory-store",
		MaxRequests: breakerHalfOpenSuccesses,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		// Absence is an expected outcome, not a database failure; it must
		// not trip the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || store.IsNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("durable store circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &SessionMemoryStore{
		db:      db,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: defaultQueryTimeout,
	}
}

// Fetch implements store.SessionMemoryStore.Fetch.
// Returns store.ErrMemoryNotFound when no record exists for the session and
// store.ErrStoreUnavailable for connectivity failures.
func (s *SessionMemoryStore) Fetch(
	ctx context.Context,
	sessionID string,
) (*domain.SessionMemory, error) {
	if sessionID == "" {
		return nil, domain.ErrEmptySessionID
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		query := `
			SELECT memory
			FROM session_memory
			WHERE session_id = $1
		`

		var blob []byte
		if err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&blob); err != nil {
			return nil, mapError("fetch", err)
		}

		var memory domain.SessionMemory
		if err := json.Unmarshal(blob, &memory); err != nil {
			return nil, fmt.Errorf("%w: corrupt memory blob: %v", store.ErrStoreUnavailable, err)
		}

		return &memory, nil
	})
	if err != nil {
		return nil, mapBreakerError(err)
	}

	memory := result.(*domain.SessionMemory)

	s.logger.Debug("fetched session memory",
		slog.String("session_id", sessionID),
		slog.Int("word_count", len(memory.WordStats)))
	return memory, nil
}

// Upsert implements store.SessionMemoryStore.Upsert.
// The created_at and updated_at columns are maintained server-side: set on
// insert, refreshed on conflict update.
func (s *SessionMemoryStore) Upsert(ctx context.Context, memory *domain.SessionMemory) error {
	if memory == nil {
		return fmt.Errorf("%w: nil record", store.ErrInvalidRecord)
	}
	if err := memory.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}

	blob, err := json.Marshal(memory)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidRecord, err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		query := `
			INSERT INTO session_memory (session_id, memory, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (session_id)
			DO UPDATE SET
				memory = EXCLUDED.memory,
				updated_at = NOW()
		`

		if _, err := s.db.ExecContext(ctx, query, memory.SessionID, blob); err != nil {
			return nil, mapError("upsert", err)
		}
		return nil, nil
	})
	if err != nil {
		return mapBreakerError(err)
	}

	s.logger.Debug("upserted session memory", slog.String("session_id", memory.SessionID))
	return nil
}

// WithTimeout returns a copy of the store using the given per-call timeout.
func (s *SessionMemoryStore) WithTimeout(timeout time.Duration) *SessionMemoryStore {
	clone := *s
	clone.timeout = timeout
	return &clone
}
