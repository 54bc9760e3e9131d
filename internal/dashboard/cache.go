package dashboard

import (
	"fmt"
	"sync"
	"time"

	"energy-dashboard/internal/clock"
	"energy-dashboard/internal/model"
)

// CacheKey identifies a reproducible dashboard. Only seeded requests are
// cacheable; an unseeded dashboard is new on every call.
type CacheKey struct {
	Granularity model.Granularity
	Comparison  model.ComparisonPeriod
	Seed        int64
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Granularity, k.Comparison, k.Seed)
}

type cacheEntry struct {
	dashboard Dashboard
	expiresAt time.Time
}

// Cache holds built dashboards for a fixed TTL. A nil *Cache is valid
// and never hits, so callers can disable caching by passing nil.
type Cache struct {
	mu    sync.RWMutex
	store map[CacheKey]cacheEntry
	ttl   time.Duration
	clk   clock.Clock
}

// NewCache returns nil when ttl <= 0.
func NewCache(ttl time.Duration, clk clock.Clock) *Cache {
	if ttl <= 0 {
		return nil
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Cache{
		store: make(map[CacheKey]cacheEntry),
		ttl:   ttl,
		clk:   clk,
	}
}

// Get retrieves a cached dashboard if present and not expired.
func (c *Cache) Get(key CacheKey) (Dashboard, bool) {
	if c == nil {
		return Dashboard{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || !c.clk.Now().Before(entry.expiresAt) {
		return Dashboard{}, false
	}
	return entry.dashboard, true
}

// Set stores d under key and sweeps expired entries.
func (c *Cache) Set(key CacheKey, d Dashboard) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now()
	for k, e := range c.store {
		if !now.Before(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{dashboard: d, expiresAt: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[CacheKey]cacheEntry)
}
