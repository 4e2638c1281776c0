// Package cache provides the in-memory reply cache used by the chat
// service. Entries are content-addressed by normalized user text and
// expire lazily after a fixed TTL; there is no background sweep.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	value     string
	createdAt time.Time
}

// ReplyCache is a process-wide TTL cache. The clock is injectable so
// expiry can be tested without real elapsed time.
type ReplyCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ReplyCache with the given TTL using the wall clock.
func New(ttl time.Duration) *ReplyCache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a ReplyCache with an explicit clock.
func NewWithClock(ttl time.Duration, now func() time.Time) *ReplyCache {
	return &ReplyCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached value for key. An entry older than the TTL is
// treated as absent and dropped.
func (c *ReplyCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return e.value, true
}

// Put stores value under key, overwriting any previous entry.
func (c *ReplyCache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, createdAt: c.now()}
}

// Len returns the number of stored entries, expired ones included.
func (c *ReplyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since process start.
func (c *ReplyCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge drops every entry.
func (c *ReplyCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
