package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache is a read-through cache in front of Directory lookups. Entries are
// keyed by normalized alias. Provisioning writes must invalidate entries
// synchronously (Delete), not merely wait for TTL expiry, so a stale
// mapping can never briefly point an alias at the wrong tenant.
type Cache interface {
	Get(ctx context.Context, alias string) (*Tenant, bool)
	Set(ctx context.Context, alias string, tenant *Tenant, ttl time.Duration)
	Delete(ctx context.Context, alias string)
	Close() error
}

// DefaultCacheSize is the default maximum number of cached tenants.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// inMemoryCache is the default in-process cache with LRU eviction and a
// background sweep of expired entries.
type inMemoryCache struct {
	mu      sync.RWMutex
	items   map[string]cacheItem
	lru     []string
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewInMemoryCache creates an in-memory cache with the default size limit.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache with a custom size limit.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &inMemoryCache{
		items:   make(map[string]cacheItem),
		lru:     make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, alias string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[alias]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, alias)
		c.removeLRU(alias)
		return nil, false
	}

	c.updateLRU(alias)
	return item.tenant, true
}

func (c *inMemoryCache) Set(ctx context.Context, alias string, tenant *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[alias]; !exists && len(c.items) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[alias] = cacheItem{tenant: tenant, expiresAt: time.Now().Add(ttl)}
	c.updateLRU(alias)
}

func (c *inMemoryCache) Delete(ctx context.Context, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, alias)
	c.removeLRU(alias)
}

func (c *inMemoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *inMemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for alias, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, alias)
			c.removeLRU(alias)
		}
	}
}

func (c *inMemoryCache) updateLRU(alias string) {
	for i, k := range c.lru {
		if k == alias {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			break
		}
	}
	c.lru = append(c.lru, alias)
}

func (c *inMemoryCache) removeLRU(alias string) {
	for i, k := range c.lru {
		if k == alias {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching; every lookup goes to the directory.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (noOpCache) Get(ctx context.Context, alias string) (*Tenant, bool) { return nil, false }
func (noOpCache) Set(ctx context.Context, alias string, tenant *Tenant, ttl time.Duration) {
}
func (noOpCache) Delete(ctx context.Context, alias string) {}
func (noOpCache) Close() error                             { return nil }
