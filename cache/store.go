package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is the expiration applied to cache entries when the caller does
// not specify one.
const DefaultTTL = 600 * time.Second

// Store is a minimal string key/value store with TTLs. Implementations must
// be safe for concurrent use; one Store handle is shared process-wide.
type Store interface {
	// Get returns (value, true, nil) on hit and ("", false, nil) on a plain
	// miss. Connectivity failures surface as *UnavailableError after the
	// bounded retry policy is exhausted.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key with the given TTL, overwriting any
	// existing entry. Non-positive TTLs fall back to DefaultTTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Ping checks that the underlying connection is alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}

// UnavailableError reports that the cache store could not be reached after
// retries. The service layer treats it as a cache miss.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cache: %s: store unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
