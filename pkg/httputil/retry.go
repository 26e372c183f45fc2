// Package httputil provides shared HTTP plumbing for the routing-service
// client: transport-level retry classification and backoff.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// SleepFunc pauses for d or until ctx is cancelled. Injecting a fake
// implementation lets tests drive retry loops without real elapsed time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// A nil sleep falls back to [Sleep]. Returns the last error if all
// attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, sleep SleepFunc, fn func() error) error {
	attempts = max(attempts, 1)
	if sleep == nil {
		sleep = Sleep
	}
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, nil, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
