package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock returns a cache whose clock the test controls.
func testClock(c *CacheManager) *time.Time {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return &now
}

func TestCacheSetGet(t *testing.T) {
	cache := NewCacheManager()
	testClock(cache)

	cache.Set("leads_page_1_limit_50", "payload", 2)

	value, ok := cache.Get("leads_page_1_limit_50")
	assert.True(t, ok)
	assert.Equal(t, "payload", value)
}

func TestCacheMissIsDistinctFromCachedNil(t *testing.T) {
	cache := NewCacheManager()
	testClock(cache)

	_, ok := cache.Get("absent")
	assert.False(t, ok)

	cache.Set("present_but_nil", nil, 5)
	value, ok := cache.Get("present_but_nil")
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestCacheExpiryRemovesEntry(t *testing.T) {
	cache := NewCacheManager()
	now := testClock(cache)

	cache.Set("lead_7", "payload", 5)

	*now = now.Add(4 * time.Minute)
	_, ok := cache.Get("lead_7")
	assert.True(t, ok, "entry should survive before its TTL elapses")

	*now = now.Add(1 * time.Minute)
	_, ok = cache.Get("lead_7")
	assert.False(t, ok, "entry must be a miss once the TTL has elapsed")
	assert.Equal(t, 0, cache.Len(), "expired entry must be deleted on read")
}

func TestCacheOverwriteRefreshesExpiry(t *testing.T) {
	cache := NewCacheManager()
	now := testClock(cache)

	cache.Set("stats_leads", "old", 1)
	*now = now.Add(30 * time.Second)
	cache.Set("stats_leads", "new", 1)

	*now = now.Add(45 * time.Second)
	value, ok := cache.Get("stats_leads")
	assert.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestCacheDefaultTTL(t *testing.T) {
	cache := NewCacheManager()
	now := testClock(cache)

	cache.Set("search_padaria", "payload", 0)

	*now = now.Add(DefaultCacheTTLMinutes*time.Minute - time.Second)
	_, ok := cache.Get("search_padaria")
	assert.True(t, ok)

	*now = now.Add(time.Second)
	_, ok = cache.Get("search_padaria")
	assert.False(t, ok)
}

func TestCacheInvalidatePattern(t *testing.T) {
	cache := NewCacheManager()
	testClock(cache)

	cache.Set("leads_page_1_limit_50", 1, 5)
	cache.Set("leads_page_2_limit_50", 2, 5)
	cache.Set("lead_9", 3, 5)
	cache.Set("stats_leads", 4, 5)

	cache.Invalidate("leads_page")

	_, ok := cache.Get("leads_page_1_limit_50")
	assert.False(t, ok)
	_, ok = cache.Get("leads_page_2_limit_50")
	assert.False(t, ok)

	// Keys not containing the pattern survive.
	_, ok = cache.Get("lead_9")
	assert.True(t, ok)
	_, ok = cache.Get("stats_leads")
	assert.True(t, ok)
}

func TestCacheInvalidateAll(t *testing.T) {
	cache := NewCacheManager()
	testClock(cache)

	cache.Set("a", 1, 5)
	cache.Set("b", 2, 5)

	cache.Invalidate("")

	assert.Equal(t, 0, cache.Len())
}

func TestCacheSweepExpired(t *testing.T) {
	cache := NewCacheManager()
	now := testClock(cache)

	cache.Set("short", 1, 1)
	cache.Set("long", 2, 10)

	*now = now.Add(2 * time.Minute)
	removed := cache.SweepExpired()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("long")
	assert.True(t, ok)
}
