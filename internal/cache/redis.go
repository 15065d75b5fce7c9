// Package cache provides Redis connection management and cache-aside helpers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"mafather/internal/config"
	"mafather/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// InitRedis connects to Redis using the given config. The cache is optional:
// when the connection fails the client stays nil and callers fall back to the
// database.
func InitRedis(cfg *config.Config) error {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		observability.GlobalLogger.Warn("redis unavailable, caching disabled", "error", err)
		client = nil
		return err
	}

	client = rdb
	return nil
}

// GetClient returns the Redis client, or nil when caching is disabled.
func GetClient() *redis.Client {
	return client
}

// SetClient overrides the Redis client. Used by tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetJSON fetches key and unmarshals it into dest. Returns false on miss or
// when caching is disabled.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			observability.RedisErrorRate.WithLabelValues("get").Inc()
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("set").Inc()
	}
}

// Invalidate removes keys from the cache.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}

	if err := client.Del(ctx, keys...).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("del").Inc()
	}
}

// CacheAside fetches key into dest, falling back to load on a miss and
// populating the cache with the loaded value.
func CacheAside[T any](ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var cached T
	if GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	SetJSON(ctx, key, value, ttl)
	return value, nil
}
