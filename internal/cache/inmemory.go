package cache

import (
	"context"
	"time"

	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/logger"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 10 * time.Minute

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache  *goCache.Cache
	logger *logger.Logger
}

// NewInMemoryCache creates a cache whose default expiration is the wizard session TTL
func NewInMemoryCache(cfg *config.Configuration, log *logger.Logger) *InMemoryCache {
	ttl := cfg.Session.TTL
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	cleanup := cfg.Session.CleanupInterval
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}

	log.Infow("initializing in-memory cache",
		"default_expiration", ttl.String(),
		"cleanup_interval", cleanup.String(),
	)

	c := &InMemoryCache{
		cache:  goCache.New(ttl, cleanup),
		logger: log,
	}
	c.cache.OnEvicted(func(key string, _ interface{}) {
		log.Debugw("cache entry evicted", "key", key)
	})
	return c
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	span := startSpan(ctx, "get", key)

	value, found := c.cache.Get(key)
	finishSpan(span, &found)
	return value, found
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	span := startSpan(ctx, "set", key)
	defer finishSpan(span, nil)

	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	span := startSpan(ctx, "delete", key)
	defer finishSpan(span, nil)

	c.cache.Delete(key)
}
