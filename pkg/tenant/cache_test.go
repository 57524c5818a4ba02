package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

func TestInMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		want := storeTenant("T1", "store1")
		cache.Set(ctx, "store1", want, time.Minute)

		got, ok := cache.Get(ctx, "store1")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("miss on unknown alias", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		_, ok := cache.Get(ctx, "nosuchstore")
		assert.False(t, ok)
	})

	t.Run("delete invalidates synchronously", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		cache.Set(ctx, "store1", storeTenant("T1", "store1"), time.Minute)
		cache.Delete(ctx, "store1")

		_, ok := cache.Get(ctx, "store1")
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		cache.Set(ctx, "store1", storeTenant("T1", "store1"), 10*time.Millisecond)
		time.Sleep(25 * time.Millisecond)

		_, ok := cache.Get(ctx, "store1")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCacheWithSize(2)
		defer cache.Close()

		cache.Set(ctx, "a", storeTenant("TA", "a"), time.Minute)
		cache.Set(ctx, "b", storeTenant("TB", "b"), time.Minute)

		// Touch "a" so "b" becomes the eviction candidate.
		_, ok := cache.Get(ctx, "a")
		require.True(t, ok)

		cache.Set(ctx, "c", storeTenant("TC", "c"), time.Minute)

		_, ok = cache.Get(ctx, "b")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "a")
		assert.True(t, ok)
		_, ok = cache.Get(ctx, "c")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNoOpCache()
	cache.Set(context.Background(), "store1", storeTenant("T1", "store1"), time.Minute)

	_, ok := cache.Get(context.Background(), "store1")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
