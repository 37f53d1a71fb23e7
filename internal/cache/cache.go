// Package cache provides an injectable read cache layered over a Store.
// The engine's scoring and resolution logic never touches it; it exists
// purely to cut repeated full-file scans in read-heavy call patterns.
package cache

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL bounds staleness for cached reads.
	DefaultTTL = 5 * time.Minute

	maxEntries = 10000
)

// Cache is the port the caching store is built on. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	InvalidatePrefix(prefix string)
}

type entry struct {
	value    any
	storedAt time.Time
}

// Memory is a bounded in-memory TTL cache.
type Memory struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	now func() time.Time // overridden in tests
}

// NewMemory returns a Memory cache. A non-positive ttl gets DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().Sub(e.storedAt) >= m.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores a value. When the cache is full, expired entries are evicted
// first and arbitrary entries after that.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= maxEntries {
		now := m.now()
		for k, e := range m.entries {
			if now.Sub(e.storedAt) >= m.ttl {
				delete(m.entries, k)
			}
		}
		for k := range m.entries {
			if len(m.entries) < maxEntries {
				break
			}
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry{value: value, storedAt: m.now()}
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (m *Memory) InvalidatePrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

// Len reports the current number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
