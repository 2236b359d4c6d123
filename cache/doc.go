// Package cache provides deterministic cache key construction and the
// key/value store abstraction used by the read-through service layer.
//
// # Overview
//
// The package exports two main pieces:
//
//   - BuildKey: derives a stable cache key from a service name, a method
//     name, positional arguments, and keyword arguments
//   - Store: a minimal string key/value store with TTLs, implemented for
//     Redis (shared, production) and in-memory (tests, development)
//
// # Key Construction
//
// Keys follow the shape
//
//	service:method:arg1:arg2:k1=v1:k2=v2
//
// Positional arguments keep call order; keyword arguments are always
// appended in sorted key order so that logically identical calls produce
// identical keys regardless of how the caller assembled the argument map.
// Values are stringified through the codec package, so UUIDs and timestamps
// take their canonical forms.
//
// Keys that grow past a bound are compacted to a fixed-size xxhash digest
// while keeping the service:method prefix readable.
//
// # Failure Semantics
//
// Store implementations are best-effort. A miss is (value "", ok false, err
// nil). Transient connectivity failures are retried with a bounded backoff
// policy and then surfaced as *UnavailableError; callers in the service
// layer degrade to a direct database read, so a cache outage costs latency,
// never correctness.
package cache
