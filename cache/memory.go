package cache

import (
	"sync"
	"time"
)

// entry holds a cached value with its timestamp.
type entry struct {
	value     string
	timestamp time.Time
}

// MemoryCache is a thread-safe in-memory cache. With a TTL of zero —
// the session default — entries never expire and are invalidated only
// by process restart; growth over the session is unbounded by design of
// the pipeline, which accepts that trade for a page's lifetime.
type MemoryCache struct {
	entries map[string]entry
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewMemoryCache creates a new in-memory cache. If ttlSeconds is 0 or
// negative, entries never expire.
func NewMemoryCache(ttlSeconds int) *MemoryCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && time.Since(e.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}

	return e.value, true
}

// Set stores a value in the cache. Overwriting an existing key is
// harmless: entries are immutable once written, so a collision rewrites
// an equal value.
func (c *MemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		timestamp: time.Now(),
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Entries returns all non-expired entries as key-value pairs.
// This is used for cache export.
func (c *MemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.entries))
	now := time.Now()

	for key, e := range c.entries {
		if c.ttl > 0 && now.Sub(e.timestamp) > c.ttl {
			continue
		}
		result[key] = e.value
	}

	return result
}

// Verify MemoryCache implements TranslationCache
var _ TranslationCache = (*MemoryCache)(nil)
