// Package cache is an in-memory TTL cache for upstream API responses.
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value   any
	expires time.Time
}

// Cache stores responses keyed by service name plus request parameters.
// Expiry is checked on read; Sweep evicts in bulk.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    int64
	misses  int64

	now func() time.Time
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds the cache key for a service call. Params are serialized as
// canonical JSON (map keys sorted by the encoder), so equivalent calls hit
// the same entry regardless of argument construction order.
func Key(service string, params any) string {
	b, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", service, params)
	}
	return service + ":" + string(b)
}

// Get returns the cached value for a service call, if present and fresh.
func (c *Cache) Get(service string, params any) (any, bool) {
	key := Key(service, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expires) {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value for a service call with the given TTL.
func (c *Cache) Set(service string, params any, value any, ttl time.Duration) {
	key := Key(service, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expires: c.now().Add(ttl)}
}

// Sweep drops all expired entries and returns how many were evicted.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Stats reports entry count plus hit/miss counters.
func (c *Cache) Stats() (size int, hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.hits, c.misses
}
