package secrets

import (
	"context"
	"sync"
	"time"
)

// Cache holds one fetched value with an optional expiry. A zero TTL means
// the value never expires (refresh requires a process restart). Racing
// refreshes are acceptable: the fetch is idempotent.
type Cache struct {
	fetch func(ctx context.Context) (string, error)
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	value   string
	expires time.Time
	set     bool
}

// NewCache creates a cache around fetch with the given TTL.
func NewCache(ttl time.Duration, fetch func(ctx context.Context) (string, error)) *Cache {
	return &Cache{fetch: fetch, ttl: ttl, now: time.Now}
}

// WithClock overrides the cache's clock, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached value, fetching when unset or expired.
func (c *Cache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.set && (c.ttl == 0 || c.now().Before(c.expires)) {
		return c.value, nil
	}

	v, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.value = v
	c.set = true
	if c.ttl > 0 {
		c.expires = c.now().Add(c.ttl)
	}
	return v, nil
}
