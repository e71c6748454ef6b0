// Package tests contains test cases for models, repository, and flow packages to avoid circular imports
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/caribetransfers/backend/app/services"
	"github.com/caribetransfers/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateCache(t *testing.T) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		cache := services.NewMemoryRateCache()
		cache.Set(ctx, "pricing:route:1:2:3:2026-06-15", []byte("payload"), time.Minute)

		got, ok := cache.Get(ctx, "pricing:route:1:2:3:2026-06-15")
		require.True(t, ok)
		assert.Equal(t, []byte("payload"), got)
	})

	t.Run("MissOnUnknownKey", func(t *testing.T) {
		cache := services.NewMemoryRateCache()
		_, ok := cache.Get(ctx, "pricing:route:9:9:9:2026-06-15")
		assert.False(t, ok)
	})

	t.Run("ExpiredEntryIsMiss", func(t *testing.T) {
		cache := services.NewMemoryRateCache()
		cache.Set(ctx, "pricing:route:1:2:3:2026-06-15", []byte("stale"), -time.Second)

		_, ok := cache.Get(ctx, "pricing:route:1:2:3:2026-06-15")
		assert.False(t, ok)
	})

	t.Run("ClearDropsOnlyPricingKeys", func(t *testing.T) {
		cache := services.NewMemoryRateCache()
		cache.Set(ctx, "pricing:route:1:2:3:2026-06-15", []byte("a"), time.Minute)
		cache.Set(ctx, "pricing:service:1:2026-06-15", []byte("b"), time.Minute)
		cache.Set(ctx, "session:abc", []byte("c"), time.Minute)

		require.NoError(t, cache.Clear(ctx))

		_, ok := cache.Get(ctx, "pricing:route:1:2:3:2026-06-15")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "pricing:service:1:2026-06-15")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "session:abc")
		assert.True(t, ok)
	})
}

func TestNoopRateCache(t *testing.T) {
	ctx := context.Background()
	cache := services.NewNoopRateCache()

	cache.Set(ctx, "pricing:route:1:2:3:2026-06-15", []byte("ignored"), time.Minute)
	_, ok := cache.Get(ctx, "pricing:route:1:2:3:2026-06-15")
	assert.False(t, ok)
	assert.NoError(t, cache.Clear(ctx))
}

func TestCacheKeys(t *testing.T) {
	t.Run("KeysCarryEveryDimension", func(t *testing.T) {
		assert.Equal(t, "pricing:route:1:2:3:2026-06-15", services.RouteCacheKey(1, 2, 3, "2026-06-15"))
		assert.Equal(t, "pricing:zones:1:4:5:2026-06-15", services.ZonesCacheKey(1, 4, 5, "2026-06-15"))
		assert.Equal(t, "pricing:service:1:2026-06-15", services.ServiceTypeCacheKey(1, "2026-06-15"))
	})

	t.Run("EmptyDateDefaultsToToday", func(t *testing.T) {
		assert.Equal(t, "pricing:route:1:2:3:today", services.RouteCacheKey(1, 2, 3, ""))
	})

	t.Run("AllNamespacesShareClearPrefix", func(t *testing.T) {
		for _, key := range []string{
			services.RouteCacheKey(1, 2, 3, "2026-06-15"),
			services.ZonesCacheKey(1, 4, 5, "2026-06-15"),
			services.ServiceTypeCacheKey(1, "2026-06-15"),
		} {
			assert.Contains(t, key, utils.PricingCachePrefix)
		}
	})
}
