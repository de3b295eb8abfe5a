package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores model outputs so identical inputs skip the model call.
type Cache interface {
	// GetResult retrieves a cached result by key.
	// Returns nil if not found.
	GetResult(ctx context.Context, key string) (*Result, error)

	// SetResult stores a result with TTL.
	SetResult(ctx context.Context, key string, result *Result, ttl time.Duration) error

	// Purge removes every cached result.
	Purge(ctx context.Context) (int, error)

	// Close closes the cache connection.
	Close() error
}

// Result is a cached model output.
type Result struct {
	Template  string    `json:"template"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateCacheKey hashes the prompt template name and its inputs. Parts are
// NUL-separated so ("ab", "c") and ("a", "bc") never collide.
func GenerateCacheKey(template string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(template))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return template + ":" + hex.EncodeToString(h.Sum(nil))
}
