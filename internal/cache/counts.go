// Package cache holds a process-local TTL cache of derived attendance
// counts.
//
// This is ephemeral per-process state with no cross-instance
// invalidation: two nodes may serve counts that differ by recent
// admissions until their entries expire. That is acceptable for a
// display counter; anything that must be exact reads the store directly.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     int64
	expiresAt time.Time
}

// CountCache memoizes a count lookup per key for a fixed TTL.
type CountCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewCountCache(ttl time.Duration) *CountCache {
	return &CountCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached count for key, or loads and caches it. Expired
// entries are reloaded in place; a failed load never caches.
func (c *CountCache) Get(ctx context.Context, key string, load func(ctx context.Context, key string) (int64, error)) (int64, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := load(ctx, key)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops the entry for key so the next Get reloads.
func (c *CountCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
