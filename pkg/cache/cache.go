// Package cache is a thin JSON layer over Redis. Every call is a no-op (or a
// miss) while RDB is nil, so the API keeps working without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eburutu/mart/config"
	"github.com/eburutu/mart/pkg/metrics"
)

const prefix = "mart:"

var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB stays nil and the caller decides whether that is fatal.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Key joins parts under the application prefix: Key("categories") → "mart:categories".
func Key(parts ...string) string {
	return prefix + strings.Join(parts, ":")
}

// Get unmarshals the value at key into dest and reports a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value as JSON under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Exists reports whether key is present.
func Exists(ctx context.Context, key string) bool {
	if RDB == nil {
		return false
	}
	n, err := RDB.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Remember returns the cached value at key, or computes it with fn and
// caches the result. Cache write failures are ignored.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	hit := Get(ctx, key, &cached)
	metrics.ObserveCache(key, hit)
	if hit {
		return cached, nil
	}

	v, err := fn()
	if err != nil {
		return v, err
	}
	_ = Set(ctx, key, v, ttl)
	return v, nil
}
