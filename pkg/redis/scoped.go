package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// defaultScanBatchSize bounds SCAN page size during per-tenant flushes.
const defaultScanBatchSize = 1000

// ScopedCache is a tenant-namespaced cache over Redis. Every key is
// prefixed "{feature}:{tenantKey}:" with the tenant key taken from the
// ambient context, so one tenant's entries can never collide with or
// evict another's. Operations fail closed with
// tenant.ErrNoTenantInContext before any network call when the context
// carries no tenant.
type ScopedCache struct {
	client        redis.UniversalClient
	feature       string
	scanBatchSize int64
}

// NewScopedCache creates a cache for one feature namespace ("products",
// "carts", "sessions", ...).
func NewScopedCache(client redis.UniversalClient, feature string) *ScopedCache {
	return &ScopedCache{
		client:        client,
		feature:       feature,
		scanBatchSize: defaultScanBatchSize,
	}
}

// scopedKey builds the tenant-prefixed storage key.
func (c *ScopedCache) scopedKey(ctx context.Context, key string) (string, error) {
	tenantKey, ok := tenant.KeyFromContext(ctx)
	if !ok {
		return "", tenant.ErrNoTenantInContext
	}
	return buildKey(c.feature, tenantKey, key), nil
}

func buildKey(feature, tenantKey, key string) string {
	var b strings.Builder
	b.Grow(len(feature) + len(tenantKey) + len(key) + 2)
	b.WriteString(feature)
	b.WriteByte(':')
	b.WriteString(tenantKey)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}

// Get fetches a value; returns ErrCacheMiss when the key is absent.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := c.scopedKey(ctx, key)
	if err != nil {
		return nil, err
	}

	val, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value with the given TTL. TTL policy is per-feature but
// always applied under the tenant-prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := c.scopedKey(ctx, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, k, value, ttl).Err()
}

// Delete removes the given keys within the ambient tenant's namespace.
func (c *ScopedCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	scoped := make([]string, 0, len(keys))
	for _, key := range keys {
		k, err := c.scopedKey(ctx, key)
		if err != nil {
			return err
		}
		scoped = append(scoped, k)
	}
	return c.client.Del(ctx, scoped...).Err()
}

// Flush removes every cached entry of the ambient tenant within this
// feature namespace. Other tenants' entries are untouched by
// construction: the SCAN pattern is anchored on the tenant prefix.
func (c *ScopedCache) Flush(ctx context.Context) error {
	prefix, err := c.scopedKey(ctx, "")
	if err != nil {
		return err
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", c.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
