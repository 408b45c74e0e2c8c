// Package stalecache provides the TTL-backed fallback store the engine
// consults when every adapter fails in both the healthy and degraded tiers.
// Entries are keyed by date and survive independently of the engine's
// short-TTL per-request cache.
package stalecache

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the lifetime of a stale-cache entry once nothing fresher
// has replaced it.
const DefaultTTL = 24 * time.Hour

// Entry is whatever the engine last successfully merged for a given date,
// wrapped with the moment it was written so callers can report staleness.
type Entry struct {
	Value     any
	WrittenAt time.Time
}

// Cache is a date-keyed TTL store. It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	inner *cache.Cache
	ttl   time.Duration
}

// New returns a Cache with the given TTL (0 selects DefaultTTL).
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Put stores value under key, refreshing its TTL.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Set(key, Entry{Value: value, WrittenAt: time.Now()}, c.ttl)
}

// Get returns the stored entry for key, if any remains unexpired.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, found := c.inner.Get(key)
	if !found {
		return Entry{}, false
	}
	entry, ok := v.(Entry)
	return entry, ok
}

// Age returns how long ago the entry at key was written.
func (e Entry) Age() time.Duration {
	return time.Since(e.WrittenAt)
}
