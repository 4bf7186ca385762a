package tracker

import (
	"sync"
	"time"
)

// statusCache holds the last successful status response for a bounded TTL.
// Control actions must invalidate it explicitly so the next read reflects
// the action instead of a pre-action snapshot.
type statusCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	status   Status
	storedAt time.Time
	valid    bool
}

func newStatusCache(ttl time.Duration) *statusCache {
	return &statusCache{ttl: ttl}
}

func (c *statusCache) get(now time.Time) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.ttl <= 0 {
		return Status{}, false
	}
	if now.Sub(c.storedAt) >= c.ttl {
		c.valid = false
		return Status{}, false
	}
	return c.status, true
}

func (c *statusCache) set(status Status, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.storedAt = now
	c.valid = true
}

func (c *statusCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
