package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix for cached results
const cacheKeyPrefix = "digest:result:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client. The cache owns it from
// then on and closes it in Close.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetResult retrieves a cached result by key
func (c *RedisCache) GetResult(ctx context.Context, key string) (*Result, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetResult stores a result with TTL
func (c *RedisCache) SetResult(ctx context.Context, key string, result *Result, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, ttl).Err()
}

// Purge deletes every key under the result prefix and reports how many were
// removed.
func (c *RedisCache) Purge(ctx context.Context) (int, error) {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
	}

	if err := iter.Err(); err != nil {
		return 0, err
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
	}

	return count, nil
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
