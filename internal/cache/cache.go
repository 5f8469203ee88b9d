package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache is the read-path cache used by the comparator and leaderboard.
// Values are serialized by callers; a miss is (nil, false).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// --------------------------------------------------
// In-memory implementation
// --------------------------------------------------

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.items[key] = memoryItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// New picks redis when REDIS_URL is configured, memory otherwise.
func New(redisURL string, logger *zap.Logger) (Cache, error) {
	if redisURL == "" {
		logger.Info("cache: using in-memory cache")
		return NewMemoryCache(), nil
	}
	return NewRedisCache(redisURL, logger)
}
