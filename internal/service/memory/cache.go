package memory

import (
	"sync"

	"github.com/wordpath/wordpath-api/internal/domain"
)

// SessionCache is the process-wide in-memory fallback for session memory
// records. It is initialized empty at process start, never evicts, and is
// bounded only by the number of distinct sessions seen in the process. It
// exists as a durability-outage fallback and fast path, not as a
// correctness-critical cache.
//
// The cache is injected into the Service rather than held as a package
// global so tests can run against an isolated instance.
type SessionCache struct {
	mu    sync.RWMutex
	items map[string]*domain.SessionMemory
}

// NewSessionCache returns an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{items: make(map[string]*domain.SessionMemory)}
}

// Get returns the cached record for a session ID, or nil if absent.
func (c *SessionCache) Get(sessionID string) *domain.SessionMemory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[sessionID]
}

// Set stores the record under its session ID, replacing any prior entry.
func (c *SessionCache) Set(memory *domain.SessionMemory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[memory.SessionID] = memory
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all entries. Intended for test isolation.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*domain.SessionMemory)
}
