// Package cachebackend provides the byte-oriented key/value store that
// backs the query engine's result cache.
// Two implementations are provided: an in-process memory backend used
// when CACHE_URL is unset, and a Redis-backed one used when it is set.
package cachebackend

import (
	"context"
	"time"
)

// Backend is the minimal interface the query engine's result cache
// needs: set a value with a TTL, fetch it back, and flush everything
// (used when the query engine installs a new reader snapshot, to drop
// entries computed against the old one).
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushAll(ctx context.Context) error
	Close() error
}
