// Package cache provides the in-process TTL cache used for property reads
// and the Redis client backing the shared ownership-authorization cache.
package cache

import (
	"strings"
	"sync"
	"time"

	"brightnest-properties/pkg/metrics"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLCache is an in-process key/value store with per-entry expiry and
// prefix invalidation. A single instance is shared process-wide; it is
// safe for concurrent use. Lookups never fail: an expired or missing
// entry is simply a miss, so callers always fall through to the store.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores value under key with expiry now + ttl.
func (c *TTLCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Get returns the value for key if present and unexpired. An expired
// entry is evicted and reported as a miss.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return e.value, true
}

// Invalidate removes the entry whose key equals target and every entry
// whose key starts with target. Exact-key invalidation and namespace
// invalidation go through this single operation.
func (c *TTLCache) Invalidate(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key == target || strings.HasPrefix(key, target) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
