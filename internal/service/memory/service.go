package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wordpath/wordpath-api/internal/domain"
	"github.com/wordpath/wordpath-api/internal/domain/mastery"
	"github.com/wordpath/wordpath-api/internal/store"
)

// Service orchestrates session memory access with a cache-aside pattern:
// reads try the durable store first and fall back to the in-process cache;
// writes go to the cache unconditionally and to the durable store
// best-effort. Durable store failures never surface to callers; they only
// degrade durability.
//
// A nil durable store is a supported configuration and means the process
// runs cache-only for its lifetime.
//
// Each get-mutate-save cycle is serialized per session ID, so two rapid
// operations on the same session cannot overwrite each other's counts.
type Service struct {
	durable store.SessionMemoryStore
	cache   *SessionCache
	params  *mastery.Params
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithParams overrides the mastery forecast parameters.
func WithParams(params *mastery.Params) Option {
	return func(s *Service) { s.params = params }
}

// NewService creates a session memory service. durable may be nil, in which
// case the service runs cache-only; cache must not be nil. If logger is nil,
// the default logger is used.
func NewService(
	durable store.SessionMemoryStore,
	cache *SessionCache,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if cache == nil {
		panic("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		durable: durable,
		cache:   cache,
		params:  mastery.DefaultParams(),
		logger:  logger.With(slog.String("component", "session_memory")),
		now:     func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(s)
	}

	if durable == nil {
		s.logger.Warn("durable store not configured, running cache-only for process lifetime")
	}

	return s
}

// Get returns the record for a session ID, resolving durable store first,
// then cache, and finally synthesizing a fresh empty record for an unseen
// session. It never fails the caller for durable store problems; the only
// error is an empty session ID.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.SessionMemory, error) {
	if sessionID == "" {
		return nil, domain.ErrEmptySessionID
	}

	if s.durable != nil {
		memory, err := s.durable.Fetch(ctx, sessionID)
		switch {
		case err == nil:
			s.cache.Set(memory)
			return memory, nil
		case store.IsNotFound(err):
			// Fall through: an earlier failed persist may have left the
			// record cache-only.
		default:
			s.logger.Warn("durable fetch failed, trying cache",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
	}

	if cached := s.cache.Get(sessionID); cached != nil {
		return cached, nil
	}

	// Unseen session: synthesize an empty record. It is cached but not
	// persisted; the first mutation's Save creates the durable row, so
	// probing a session ID never writes to the database.
	memory, err := domain.NewSessionMemory(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	s.cache.Set(memory)

	return memory, nil
}

// Save stamps updatedAt, writes the record into the cache unconditionally,
// and attempts the durable upsert. Upsert failure is logged and swallowed;
// the cache stays authoritative for the rest of the process lifetime.
func (s *Service) Save(ctx context.Context, memory *domain.SessionMemory) error {
	if err := memory.Validate(); err != nil {
		return err
	}

	memory.UpdatedAt = s.now()
	s.cache.Set(memory)

	if s.durable == nil {
		return nil
	}

	if err := s.durable.Upsert(ctx, memory); err != nil {
		s.logger.Warn("durable save failed, record cached only",
			slog.String("session_id", memory.SessionID),
			slog.String("error", err.Error()))
	}

	return nil
}

// RecordWords increments usage counters and preference scores for each
// spoken word, recomputes the mastery forecast, and saves the record.
// Words are case-folded; blank entries are skipped. An empty list leaves the
// record unchanged apart from updatedAt.
func (s *Service) RecordWords(
	ctx context.Context,
	sessionID string,
	words []string,
) (*domain.SessionMemory, error) {
	return s.mutate(ctx, sessionID, func(m *domain.SessionMemory) {
		now := s.now()
		for _, word := range words {
			m.TouchWord(word, now)
		}
		m.MasteryForecast = mastery.ForecastWithParams(m.WordStats, m.WordOrder, now, s.params)
	})
}

// RecordUtterance extracts adjacent word pairs from the utterance,
// increments their counters, prepends the raw utterance to the recent list,
// and saves the record. Word stats and the forecast are not touched; callers
// wanting both effects also call RecordWords.
func (s *Service) RecordUtterance(
	ctx context.Context,
	sessionID string,
	utterance string,
) (*domain.SessionMemory, error) {
	return s.mutate(ctx, sessionID, func(m *domain.SessionMemory) {
		tokens := domain.TokenizeUtterance(utterance)
		for i := 0; i+1 < len(tokens); i++ {
			m.TouchPair(tokens[i], tokens[i+1])
		}
		m.PrependUtterance(utterance)
	})
}

// ApplyUpdate merges a partial update into the record using the per-field
// merge rules and saves it. An empty update is a no-op that still refreshes
// updatedAt.
func (s *Service) ApplyUpdate(
	ctx context.Context,
	sessionID string,
	update domain.MemoryUpdate,
) (*domain.SessionMemory, error) {
	return s.mutate(ctx, sessionID, func(m *domain.SessionMemory) {
		update.Apply(m)
	})
}

// Forecast returns the current mastery projection for a session. It is a
// read-only view of the record and never fails for durable store problems.
func (s *Service) Forecast(
	ctx context.Context,
	sessionID string,
) ([]domain.MasteryForecast, error) {
	memory, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return memory.MasteryForecast, nil
}

// mutate runs a get-mutate-save cycle under the session's lock. The
// mutation operates on a clone so records previously returned to callers
// stay stable.
func (s *Service) mutate(
	ctx context.Context,
	sessionID string,
	fn func(*domain.SessionMemory),
) (*domain.SessionMemory, error) {
	if sessionID == "" {
		return nil, domain.ErrEmptySessionID
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	memory := current.Clone()
	fn(memory)

	if err := s.Save(ctx, memory); err != nil {
		return nil, err
	}

	return memory, nil
}

// lockSession returns an unlock function for the session's mutex, creating
// the mutex on first use. Locks are never removed; the map grows with the
// set of sessions seen by the process, same as the cache.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
