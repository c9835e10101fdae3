package adapter

import (
	"context"
	"sync"
	"time"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/util"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is a process-local domain.Cache. Entries expire lazily: an
// expired entry is dropped the first time it is read after its TTL.
// There is no size bound.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   util.Clock
}

// NewMemoryCache creates an empty cache. A nil clock means the system clock.
func NewMemoryCache(clock util.Clock) *MemoryCache {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.clock.Now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = m.clock.Now().Add(expiration)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Ping always succeeds.
func (m *MemoryCache) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
