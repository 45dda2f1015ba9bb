// Package cache stores solve results between runs.
//
// All backends implement [Cache], a byte-oriented key/value store with
// optional expiry. Keys are produced by a [Keyer] so that every backend
// shares one naming scheme:
//
//	solve:<sha256>    full solve result for an input and pattern options
//	corners:<sha256>  corner-only result for an input
//	result:<id>       result stored by the HTTP API under a generated id
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//   - [SQLiteCache]: single-file embedded store
//
// Only network failures of remote backends are retried, see
// [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
