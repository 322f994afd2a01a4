// Package cache provides TTL-bounded caching with in-memory and Redis
// backends behind a common byte-oriented interface.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is applied when Set is called with a non-positive TTL and no
// default was configured.
const DefaultTTL = time.Hour

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a TTL cache over opaque byte values.
type Cache interface {
	// Get returns the value for key, or ErrNotFound when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for ttl. A non-positive ttl uses the
	// cache's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key belonging to this cache's namespace.
	Clear(ctx context.Context) error
	Close() error
}

// Backend represents the type of cache backend to use.
type Backend string

const (
	// BackendMemory keeps entries in process memory. Contents are lost on
	// restart.
	BackendMemory Backend = "memory"
	// BackendRedis stores entries in a Redis server, namespaced by key
	// prefix. Requires a reachable server.
	BackendRedis Backend = "redis"
)

// Options configures cache construction.
type Options struct {
	// Namespace prefixes every key so multiple stores can share one backend.
	Namespace string
	// TTL replaces non-positive TTLs passed to Set. Zero means DefaultTTL.
	TTL time.Duration
	// RedisURL is the connection string for the redis backend,
	// e.g. "redis://localhost:6379".
	RedisURL string
}

// New creates a cache of the specified backend type.
// Supported backends: "memory" (default), "redis".
func New(backend string, opts Options) (Cache, error) {
	switch Backend(backend) {
	case BackendMemory, "":
		return NewMemoryCache(opts), nil
	case BackendRedis:
		return NewRedisCache(opts)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, redis)", backend)
	}
}
