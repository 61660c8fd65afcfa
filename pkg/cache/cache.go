// Package cache stores duplicate-detection summaries and rendered diagrams
// so repeated runs over the same tree skip the traversal.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Wrap any backend with [Instrument] to report hits, misses and writes to
// the observability hooks.
//
// # Keys
//
// A [Keyer] turns a tree fingerprint from [TreeHash] plus the options that
// change the output into a cache key. [NewScopedKeyer] prefixes keys so
// several producers can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLReport is how long a duplicate summary stays cached. Summaries are
	// a pure function of the tree and options, so this only bounds disk use.
	TTLReport = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered diagram stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)
