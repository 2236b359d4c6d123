// Package retry provides a generic retry helper with exponential backoff and
// jitter for transient connection failures around cache, database, and broker
// round trips.
package retry

import (
	"context"
	"time"
)

// Config controls the retry behaviour of [Do].
type Config struct {
	// MaxAttempts is the maximum number of times fn is called (including the
	// first attempt). Values ≤ 1 mean no retries.
	MaxAttempts int

	// BaseDelay is the delay before the first retry. Subsequent retries use
	// exponential back-off: BaseDelay * 2^attempt.
	BaseDelay time.Duration

	// MaxDelay caps the computed back-off delay.
	MaxDelay time.Duration

	// Jitter adds randomness to the delay. A value of 0.2 means ±20 % of
	// the computed delay. Zero disables jitter.
	Jitter float64

	// Retryable reports whether an error is worth another attempt. A nil
	// predicate means no error is retried.
	Retryable func(error) bool

	// OnRetry, when set, observes each scheduled retry: the 1-based attempt
	// that just failed, the error it returned, and the delay before the next
	// attempt. Used to wire a log or trace signal per attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig matches the bounded policy shared by the cache store, the
// repository, and the notification publisher: three attempts with a fixed
// one-second base delay.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
		Retryable:   Transient,
	}
}

// Do calls fn up to cfg.MaxAttempts times, retrying only when the returned
// error satisfies cfg.Retryable. Between attempts an exponential back-off
// delay (with optional jitter) is applied.
//
// The context is checked before every retry; if ctx is done the function
// returns immediately with the context error.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		// Last attempt — return immediately regardless of classification.
		if i == attempts-1 {
			return zero, err
		}

		if cfg.Retryable == nil || !cfg.Retryable(err) {
			return zero, err
		}

		delay := backoff(cfg, i)
		if cfg.OnRetry != nil {
			cfg.OnRetry(i+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	// Unreachable, but keeps the compiler happy.
	return zero, nil
}
