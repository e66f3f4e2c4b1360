// Package cache provides an in-memory key-value store with per-entry TTL.
//
// Expired entries are evicted lazily on read; there is no background sweep
// and no entry bound. One instance is constructed at startup and shared by
// every market-data client so all price lookups hit the same store.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a mutex-serialized TTL store. Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	store map[string]entry
	now   func() time.Time // injectable clock for testing
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		store: make(map[string]entry),
		now:   time.Now,
	}
}

// Get returns the value for key. A read past the entry's expiry deletes the
// entry and reports absence, identical to a key that was never set.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.store, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL, overwriting any existing
// entry and resetting its expiry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]entry)
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
