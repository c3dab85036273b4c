// Package cache holds the in-process TTL cache shared by the data-acquisition
// routes. It is the only state that outlives a single request; everything it
// stores is immutable once returned, so the last-write-wins race between
// concurrent populators of the same key is accepted.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// TTLCache is a concurrency-safe in-memory cache with per-entry TTLs and
// lazy expiry: expired entries are treated as absent on read rather than
// swept by a background goroutine.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

// New creates an empty TTLCache. One instance is created per process and
// passed explicitly to everything that caches.
func New() *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key if a live entry exists. An entry is live
// while now - storedAt < ttl; expired entries are dropped on the way out.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(e.storedAt) >= e.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a Set may have replaced the entry
		// between the read above and taking the lock.
		if cur, ok := c.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key for the given TTL, overwriting (not merging)
// any previous entry. A non-positive TTL disables caching for the call.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Len reports the number of stored entries, including ones that have expired
// but not yet been read.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
