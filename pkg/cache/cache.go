// Package cache stores computed mappings so repeated runs with the same graph
// and options can skip the recursive bipartitioning.
//
// # Backends
//
//   - [NullCache] never stores anything; it is used when caching is disabled.
//   - [FileCache] keeps JSON entries on disk for the CLI.
//   - [RedisCache] shares entries between API server instances.
//
// All backends implement [Cache]. Backends that can drop all of their
// entries also implement [Clearer].
//
// # Keys
//
// A [Keyer] derives keys from the content hash of a graph and the options
// that influence the result. Two requests share a key only if they would
// produce the same mapping:
//
//	key := keyer.MappingKey(cache.Hash(graphJSON), cache.MappingKeyOpts{
//	    Arch:     "cmplt:8",
//	    Strategy: "ml{ga,greedy}",
//	    Seed:     1,
//	    Threads:  4,
//	})
//
// [ScopedKeyer] prefixes every key, which separates tenants sharing one
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is reported with
	// ok == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can remove all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
