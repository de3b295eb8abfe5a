package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_TEST_ADDR=localhost:6379 go test ./internal/session
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	st, err := NewRedisStore(addr, os.Getenv("REDIS_TEST_PASSWORD"), time.Minute)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	s, err := st.Create(ctx)
	require.NoError(t, err)
	defer st.Delete(ctx, s.ID)

	updated, err := st.Update(ctx, s.ID, func(s *Session) error {
		s.Summarized("pdf", "report.pdf", "summary", "full text", time.Now().UTC())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateSummarized, updated.State)

	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "full text", got.Context)

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
