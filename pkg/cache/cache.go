// Package cache stores rendered Graphviz output keyed by a content hash.
//
// Rendering the same description twice with the same engine and format
// yields the same bytes, so the render pipeline can skip the subprocess on a
// hit. Four backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: bounded in-process LRU (HTTP server default)
//   - [RedisCache]: shared cache for several server replicas
//   - [NullCache]: caching disabled
//
// [Scoped] prefixes every key, which keeps several deployments apart in one
// Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
