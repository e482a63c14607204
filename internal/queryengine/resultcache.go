package queryengine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/cachebackend"
)

// DefaultResultTTL is the default lifetime of a cached response.
const DefaultResultTTL = 24 * time.Hour

// resultCache wraps a cachebackend.Backend with JSON (de)serialization
// of response envelopes. A nil or erroring backend degrades to "always
// miss" rather than failing the request.
type resultCache struct {
	backend cachebackend.Backend
	ttl     time.Duration
	log     *slog.Logger
}

func newResultCache(backend cachebackend.Backend, ttl time.Duration, log *slog.Logger) *resultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &resultCache{backend: backend, ttl: ttl, log: log}
}

func (c *resultCache) get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.backend == nil {
		return false
	}
	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache get failed, treating as miss", slog.String("error", err.Error()))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Warn("cache payload corrupt, treating as miss", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *resultCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.backend == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn("cache set failed", slog.String("error", err.Error()))
	}
}

// invalidateAll flushes the cache; called when the engine installs a new
// reader snapshot and from Engine.InvalidateCache.
func (c *resultCache) invalidateAll(ctx context.Context) {
	if c == nil || c.backend == nil {
		return
	}
	if err := c.backend.FlushAll(ctx); err != nil {
		c.log.Warn("cache flush failed", slog.String("error", err.Error()))
	}
}
