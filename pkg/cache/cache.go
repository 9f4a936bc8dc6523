// Package cache provides byte-level caching of provider HTTP responses.
//
// Evaluations are independent and stateless, so caching is a transport
// optimisation only and is disabled unless a backend is configured. Backends:
//
//   - [NullCache]: never stores anything (the default)
//   - [MemoryCache]: process-local LRU, shared by the concurrent evaluators of
//     one run (the README is fetched by both RampUp and License)
//   - [FileCache]: one JSON file per entry under the XDG cache directory
//   - [RedisCache]: shared cache for several `pkgscore serve` instances
//
// Keys are produced by a [Keyer]; use [NewScopedKeyer] to keep responses
// fetched with different GitHub tokens apart.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with a per-entry time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the payload for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
