package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when CACHE_PROVIDER=none or Redis is unreachable: every lookup
// misses and every write succeeds.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetResult always returns nil (cache miss)
func (c *NoOpCache) GetResult(ctx context.Context, key string) (*Result, error) {
	return nil, nil
}

// SetResult does nothing and always succeeds
func (c *NoOpCache) SetResult(ctx context.Context, key string, result *Result, ttl time.Duration) error {
	return nil
}

// Purge has nothing to remove
func (c *NoOpCache) Purge(ctx context.Context) (int, error) {
	return 0, nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
