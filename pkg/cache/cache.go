// Package cache provides byte-oriented caching of routing-service responses.
//
// Three backends are available:
//   - FileCache: directory of JSON entry files, for CLI usage
//   - RedisCache: shared cache for repeated study runs on one host
//   - NullCache: caching disabled
//
// Keys are arbitrary strings; backends hash them, so request URLs are safe
// keys. Entries carry a TTL; a TTL of 0 never expires.
package cache

import (
	"context"
	"time"
)

// TTLRoute is the default time-to-live for cached directions responses.
// Routes between fixed study coordinates change rarely; a day keeps
// re-runs cheap without growing stale across study revisions.
const TTLRoute = 24 * time.Hour

// Cache stores opaque byte values under string keys with expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
