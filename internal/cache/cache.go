// Package cache is a thin byte cache with TTL, used for rendered PDFs.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ── Redis ─────────────────────────────────────────────────────────────────────

type redisCache struct{ client *redis.Client }

func NewRedis(client *redis.Client) Cache { return &redisCache{client: client} }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// ── In-memory ─────────────────────────────────────────────────────────────────
// Fallback when Redis is not configured; also what the tests use.

type entry struct {
	value   []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory() Cache {
	return &memoryCache{entries: make(map[string]entry)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, redis.Nil
	}
	return e.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expires: time.Now().Add(ttl)}
	return nil
}
