package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_TEST_ADDR=localhost:6379 go test ./internal/cache
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	c, err := NewRedisCache(addr, os.Getenv("REDIS_TEST_PASSWORD"))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, err = c.Purge(ctx)
	require.NoError(t, err)

	key := GenerateCacheKey("summary", "web", "hello")
	got, err := c.GetResult(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := &Result{Template: "summary", Text: "a summary", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, c.SetResult(ctx, key, want, time.Minute))

	got, err = c.GetResult(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Text, got.Text)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = c.GetResult(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", "")
	assert.Error(t, err)
}
