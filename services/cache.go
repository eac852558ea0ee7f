package services

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTLMinutes is applied when a caller passes a non-positive TTL.
const DefaultCacheTTLMinutes = 5

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// CacheManager is an in-process memoization store keyed by opaque strings.
// Each entry carries its own expiry; expired entries are removed lazily on
// read. The cache is purely an optimization: a miss must always be answered
// by refetching from the backend, so dropping it never affects correctness.
type CacheManager struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	// now is swappable so tests can control the clock.
	now func() time.Time
}

func NewCacheManager() *CacheManager {
	return &CacheManager{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Set stores data under key, expiring ttlMinutes from now. An existing entry
// with the same key is overwritten.
func (c *CacheManager) Set(key string, data interface{}, ttlMinutes int) {
	if ttlMinutes <= 0 {
		ttlMinutes = DefaultCacheTTLMinutes
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		data:      data,
		expiresAt: c.now().Add(time.Duration(ttlMinutes) * time.Minute),
	}
}

// Get returns the cached value for key. The second return value reports a
// hit, which keeps a cached nil distinguishable from a miss. An expired
// entry is deleted on the way out.
func (c *CacheManager) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, ok := c.entries[key]; ok && !c.now().Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.data, true
}

// Invalidate deletes every key containing pattern as a substring. With an
// empty pattern the whole cache is cleared.
func (c *CacheManager) Invalidate(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "" {
		c.entries = make(map[string]cacheEntry)
		return
	}

	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
		}
	}
}

// SweepExpired removes entries already past their expiry and reports how
// many were dropped. Correctness never depends on the sweep; it only bounds
// memory between reads.
func (c *CacheManager) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired or not.
func (c *CacheManager) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
