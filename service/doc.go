// Package service implements the read-through caching service that fronts a
// repository with a shared cache store and emits a notification after every
// successful mutation.
//
// # Read Path
//
// Get and GetAll derive a deterministic cache key, try the store, and fall
// back to the repository on a miss, refilling the cache with the fetched
// result. Cache outages and undecodable cached values degrade to the
// repository path; they are logged and never surfaced to callers. Absent
// records are not negatively cached.
//
// # Write Path
//
// Create, Update, and Remove always write through to the repository. After
// the transaction commits, a human-readable notification naming the affected
// record is published with a fixed routing key. Publishing is fire-and-forget:
// a failure is logged and never rolls back or fails the committed write.
//
// Writes do not invalidate existing cache entries; stale reads are bounded
// by the entry TTL. The cache is strictly a performance overlay — absence of
// an entry can only make a read slower, never wrong.
//
// # Composition
//
// Reusable precondition checks are explicit collaborators rather than
// inheritance: a UniquenessChecker wraps a repository handle and a field
// name, and the typed façades (BookService, UserService) run their checks
// before delegating to the generic Service.
package service
