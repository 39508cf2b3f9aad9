package cache

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache wraps the Redis client used for user caching and rate limiting.
// The cache is strictly an accelerator: callers must tolerate every method
// failing and fall back to the database.
type RedisCache struct {
	client *redis.Client
}

var (
	instance *RedisCache
	once     sync.Once
)

// GetInstance returns the singleton Redis cache client
func GetInstance() *RedisCache {
	once.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		instance = NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"))
	})
	return instance
}

// NewRedisCache creates a cache client for an explicit address. Used by tests
// to point at a throwaway server.
func NewRedisCache(addr, password string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
	}
}

// Get returns the value stored under key, or redis.Nil error when absent
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

// Set stores a value with a TTL
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes keys from the cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Incr increments a counter key and returns the new value. When the counter
// is created it gets the supplied window as TTL (INCR + EXPIRE NX pattern
// used for fixed-window rate limiting).
func (c *RedisCache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = c.client.Expire(ctx, key, window).Err()
	}
	return n, nil
}

// Ping checks connectivity to the Redis server
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// IsMiss reports whether err is a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
