package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process local response cache. A zero ttl keeps entries until
// Clear is called.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		mu:      sync.RWMutex{},
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]entry{},
	}
}

func (cache *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	cache.mu.RLock()
	e, ok := cache.entries[key]
	cache.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !e.expiresAt.IsZero() && !cache.now().Before(e.expiresAt) {
		cache.mu.Lock()
		delete(cache.entries, key)
		cache.mu.Unlock()

		return nil, false, nil
	}

	return e.value, true, nil
}

func (cache *Memory) Set(_ context.Context, key string, value []byte) error {
	//nolint:exhaustruct //expiresAt is optional
	e := entry{value: append([]byte{}, value...)}
	if cache.ttl > 0 {
		e.expiresAt = cache.now().Add(cache.ttl)
	}

	cache.mu.Lock()
	cache.entries[key] = e
	cache.mu.Unlock()

	return nil
}

func (cache *Memory) Clear(_ context.Context) error {
	cache.mu.Lock()
	cache.entries = map[string]entry{}
	cache.mu.Unlock()

	return nil
}

func (cache *Memory) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	return len(cache.entries)
}
