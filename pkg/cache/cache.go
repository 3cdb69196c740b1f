// Package cache provides response caching for catalog lookups.
//
// The CLI caches GitHub API responses between invocations so that
// repeated adds of the same package do not re-query the network. Two
// backends exist: a file-based cache under the XDG cache directory, and
// a null cache for tests and --refresh runs.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bytes under string keys with a TTL.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
