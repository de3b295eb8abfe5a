package retry

import (
	"context"
	"time"
)

// maxBackoff caps a single delay.
const maxBackoff = 30 * time.Second

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt, capped at 30s.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return maxBackoff
	}
	d := base * (1 << attempt)
	if d > maxBackoff || d < 0 {
		return maxBackoff
	}
	return d
}

// Do calls fn up to 1+retries times, sleeping with exponential backoff
// between attempts. It stops early when fn succeeds, when retryable reports
// false for the error, or when ctx is done. The last error from fn is
// returned.
func Do(ctx context.Context, retries int, base time.Duration, retryable func(error) bool, fn func() error) error {
	if retries < 0 {
		retries = 0
	}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == retries || (retryable != nil && !retryable(err)) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(ExponentialBackoff(attempt, base)):
		}
	}
	return err
}
