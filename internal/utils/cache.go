package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // For redis.Nil comparison
	"strconv"       // Version parsing
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// A nil *redis.Client disables caching: reads miss, writes are no-ops.

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheVersion reads a generation counter; a missing key is generation 0.
// Versioned keys let a single INCR invalidate every cached page of a listing.
func CacheVersion(ctx context.Context, rdb *redis.Client, key string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// BumpVersion advances a generation counter
func BumpVersion(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	pipe := rdb.TxPipeline()
	for _, k := range keys {
		pipe.Incr(ctx, k)
	}
	_, err := pipe.Exec(ctx)
	return err
}
