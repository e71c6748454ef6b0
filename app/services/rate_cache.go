// Package services provides external service integrations and technical concerns like caching and notifications
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/utils"
	"github.com/redis/go-redis/v9"
)

// RateCache memoizes rate resolution results. It is a performance layer only:
// callers must treat a miss and a backend failure identically and fall back to
// the store. Clear drops every pricing namespace at once — rate writes depend
// on that to guarantee no stale resolution survives an administrative edit.
type RateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context) error
	Close() error
}

// RouteCacheKey builds the cache key for a location-route lookup
func RouteCacheKey(serviceTypeID, fromLocationID, toLocationID uint, date string) string {
	if date == "" {
		date = "today"
	}
	return fmt.Sprintf("%s%d:%d:%d:%s", utils.PricingRouteCacheNamespace, serviceTypeID, fromLocationID, toLocationID, date)
}

// ZonesCacheKey builds the cache key for a zone-route lookup
func ZonesCacheKey(serviceTypeID, fromZoneID, toZoneID uint, date string) string {
	if date == "" {
		date = "today"
	}
	return fmt.Sprintf("%s%d:%d:%d:%s", utils.PricingZonesCacheNamespace, serviceTypeID, fromZoneID, toZoneID, date)
}

// ServiceTypeCacheKey builds the cache key for a bulk per-service-type lookup
func ServiceTypeCacheKey(serviceTypeID uint, date string) string {
	if date == "" {
		date = "today"
	}
	return fmt.Sprintf("%s%d:%s", utils.PricingServiceCacheNamespace, serviceTypeID, date)
}

// RedisRateCache implements RateCache on a shared Redis client. Keys are
// scoped under the configured deployment prefix plus the pricing namespaces.
type RedisRateCache struct {
	rc     *redis.Client
	prefix string
}

// NewRedisRateCache creates a Redis-backed rate cache
func NewRedisRateCache(rc *redis.Client, cfg config.CacheConfig) *RedisRateCache {
	return &RedisRateCache{
		rc:     rc,
		prefix: cfg.RedisPrefix,
	}
}

func (c *RedisRateCache) key(key string) string {
	return c.prefix + key
}

// Get returns the cached value for the key. Backend errors are reported as
// misses so resolution degrades to a direct store read.
func (c *RedisRateCache) Get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := c.rc.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Rate cache read failed for %s: %v", key, err)
		}
		return nil, false
	}
	return bs, true
}

// Set stores the value with the given TTL. Failures are logged and swallowed;
// the cache never fails a request.
func (c *RedisRateCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rc.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.Printf("Rate cache write failed for %s: %v", key, err)
	}
}

// Clear removes every key under the pricing prefix, across all namespaces.
// Uses SCAN rather than KEYS to avoid blocking the server on large keyspaces.
func (c *RedisRateCache) Clear(ctx context.Context) error {
	pattern := c.key(utils.PricingCachePrefix) + "*"

	var cursor uint64
	for {
		keys, next, err := c.rc.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return fmt.Errorf("failed to scan pricing cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rc.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete pricing cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisRateCache) Close() error {
	return c.rc.Close()
}

type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryRateCache implements RateCache with an in-process map. Used when the
// cache provider is "memory" and by tests.
type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
}

// NewMemoryRateCache creates an in-memory rate cache
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]memoryCacheEntry),
	}
}

func (c *MemoryRateCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if utils.UTCNow().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryRateCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memoryCacheEntry{
		value:     value,
		expiresAt: utils.UTCNow().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MemoryRateCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, utils.PricingCachePrefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryRateCache) Close() error {
	return nil
}

// NoopRateCache implements RateCache as a pass-through miss. Used when
// caching is disabled so flows need no nil checks.
type NoopRateCache struct{}

func NewNoopRateCache() *NoopRateCache { return &NoopRateCache{} }

func (NoopRateCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (NoopRateCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (NoopRateCache) Clear(ctx context.Context) error { return nil }

func (NoopRateCache) Close() error { return nil }
