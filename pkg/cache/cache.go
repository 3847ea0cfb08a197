// Package cache provides the schedule cache used by the CLI and the API.
//
// A schedule depends only on the graph document, so it is cached under the
// SHA-256 hash of the canonical graph JSON. Three backends are available:
//
//   - [FileCache]: one JSON file per entry, for local CLI use
//   - [RedisCache]: shared cache for servers and CI runners
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLSchedule is how long computed schedules are kept. Schedules never go
// stale for an unchanged graph, so the TTL only bounds storage.
const TTLSchedule = 7 * 24 * time.Hour

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
