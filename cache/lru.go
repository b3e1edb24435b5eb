package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// cacheEntry holds a cached value with its expiry.
type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// LRUCache is a thread-safe, capacity-bounded cache with TTL support.
// When full, the least recently used entry is evicted. Expired entries are
// dropped lazily when they are looked up.
type LRUCache struct {
	lru      *simplelru.LRU[string, cacheEntry]
	capacity int
	ttl      time.Duration
	now      func() time.Time
	stats    Stats
	mu       sync.Mutex
}

// NewLRUCache creates a cache holding at most capacity entries, each valid
// for ttl. A capacity below 1 is raised to 1. If ttl is 0 or negative,
// entries never expire.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	if ttl < 0 {
		ttl = 0
	}

	// NewLRU only fails for a non-positive size.
	l, _ := simplelru.NewLRU[string, cacheEntry](capacity, nil)

	return &LRUCache{
		lru:      l,
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *LRUCache) WithClock(now func() time.Time) *LRUCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get retrieves a value from the cache and marks it most recently used.
// An expired entry is removed and reported as a miss without touching the
// recency order.
func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Peek(key)
	if !ok {
		c.stats.Misses++
		return "", false
	}

	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.lru.Remove(key)
		c.stats.Expirations++
		c.stats.Misses++
		return "", false
	}

	c.lru.Get(key)
	c.stats.Hits++
	return entry.value, true
}

// Set stores a value in the cache, evicting the least recently used entry
// if the cache is full.
func (c *LRUCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{value: value}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	if evicted := c.lru.Add(key, entry); evicted {
		c.stats.Evictions++
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear removes all entries from the cache. Counters are kept.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Keys returns the cached keys from least to most recently used.
func (c *LRUCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Stats returns a snapshot of the cache counters.
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.lru.Len()
	s.Capacity = c.capacity
	return s
}

// Verify LRUCache implements TranslationCache
var _ TranslationCache = (*LRUCache)(nil)
