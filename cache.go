package staticpress

import (
	"sync"
	"time"
)

// SiteCache holds the build the preview server answers from. A failed
// rebuild never replaces a good build; it is only recorded.
type SiteCache struct {
	mu       sync.RWMutex
	build    *Build
	loadedAt time.Time
	lastErr  error
	failedAt time.Time
}

// CacheStatus describes the cached build and the most recent failure.
type CacheStatus struct {
	LoadedAt  time.Time
	LastError error
	FailedAt  time.Time
}

// Current returns the last good build, or nil before the first success.
func (c *SiteCache) Current() *Build {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.build
}

// Store swaps in a new good build and clears any recorded failure.
func (c *SiteCache) Store(b *Build, at time.Time) {
	c.mu.Lock()
	c.build = b
	c.loadedAt = at
	c.lastErr = nil
	c.failedAt = time.Time{}
	c.mu.Unlock()
}

// Fail records a rebuild error and keeps the current build.
func (c *SiteCache) Fail(err error, at time.Time) {
	c.mu.Lock()
	c.lastErr = err
	c.failedAt = at
	c.mu.Unlock()
}

// Status reports when the cache was last loaded and the latest failure.
func (c *SiteCache) Status() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStatus{LoadedAt: c.loadedAt, LastError: c.lastErr, FailedAt: c.failedAt}
}
