package completion

import (
	"context"
	"time"
)

const (
	DefaultMaxAttempts = 3
	baseDelay          = 2 * time.Second
	maxDelay           = 5 * time.Minute
)

// RetryPolicy bounds the attempts of one completion and the wait between them.
type RetryPolicy struct {
	MaxAttempts int
	// Backoff returns the wait after failed attempt n (1-based).
	Backoff func(attempt int) time.Duration
}

// NewRetryPolicy counts the first call in maxAttempts: 3 means one call and at
// most two retries.
func NewRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     ExponentialBackoff,
	}
}

// ExponentialBackoff waits 2^attempt seconds: 2s, 4s, 8s, capped at five minutes.
func ExponentialBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return baseDelay
	}

	delay := time.Second
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay > maxDelay {
			return maxDelay
		}
	}
	return delay
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
