package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with opportunistic sweeping. It serves
// tests and cache-less single-invocation deployments; expiry is checked on
// read so a stale entry is never returned.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]memoryEntry
	lastSweep time.Time

	// now is injectable for TTL tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	if now != nil {
		m.now = now
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || m.now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	// opportunistic sweep every ~2 minutes
	if m.lastSweep.IsZero() || now.Sub(m.lastSweep) > 2*time.Minute {
		m.sweepLocked(now)
		m.lastSweep = now
	}
	return nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for k, e := range m.items {
		if now.After(e.expiresAt) {
			delete(m.items, k)
		}
	}
}
