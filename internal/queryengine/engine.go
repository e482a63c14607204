// Package queryengine implements query parsing,
// execution against the bleve/scorch index, composite re-ranking with
// hyphen interleaving, and a coarse-invalidation result cache sitting in
// front of it.
package queryengine

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/cachebackend"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zoneindex"
)

// DefaultRefreshInterval is how often the engine polls the index
// manifest for a new commit.
const DefaultRefreshInterval = 10 * time.Second

// minOverFetch is the floor of the over-fetch budget B = max(limit*10,
// 500).
const minOverFetch = 500

// Engine is the query-serving half of the system: a periodically
// refreshed reader snapshot plus an optional result cache.
type Engine struct {
	dir     string
	current atomic.Pointer[snapshot]
	refresh time.Duration
	cache   *resultCache
	cacheOn bool
	log     *slog.Logger

	stopCh chan struct{}
	done   chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithRefreshInterval overrides DefaultRefreshInterval.
func WithRefreshInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.refresh = d
		}
	}
}

// WithResultTTL overrides the cache TTL (default DefaultResultTTL).
func WithResultTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if e.cache != nil {
			e.cache.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Open opens dir read-only and starts the background snapshot-refresh
// loop. cache may be nil, in which case the result cache is disabled and
// every request falls through to the index.
func Open(dir string, cache cachebackend.Backend, opts ...Option) (*Engine, error) {
	idx, err := zoneindex.OpenReadOnly(dir)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		dir:     dir,
		refresh: DefaultRefreshInterval,
		cacheOn: cache != nil,
		log:     slog.Default(),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	snap := newSnapshot(idx)
	e.current.Store(snap)
	e.cache = newResultCache(cache, DefaultResultTTL, e.log)

	for _, o := range opts {
		o(e)
	}
	e.cache.log = e.log

	go e.refreshLoop()
	return e, nil
}

// CacheEnabled reports whether a result cache backend is configured.
func (e *Engine) CacheEnabled() bool {
	return e.cacheOn
}

// InvalidateCache flushes the result cache on demand. The full and daily
// commands do not call it; the engine flushes the cache itself whenever
// reopen installs a new reader snapshot.
func (e *Engine) InvalidateCache(ctx context.Context) {
	e.cache.invalidateAll(ctx)
}

// Stats reports the live snapshot's document/segment/size counters for
// the `/stats` endpoint and `stats` CLI command.
func (e *Engine) Stats() (zoneindex.IndexStats, error) {
	snap, err := e.acquireSnapshot()
	if err != nil {
		return zoneindex.IndexStats{}, err
	}
	defer snap.release()
	return zoneindex.ReadStats(e.dir, snap.idx)
}

// Close stops the refresh loop and releases the current snapshot.
func (e *Engine) Close() error {
	close(e.stopCh)
	<-e.done
	snap := e.current.Load()
	snap.markRetiredAndMaybeClose()
	return nil
}

func (e *Engine) refreshLoop() {
	defer close(e.done)
	ticker := time.NewTicker(e.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.reopen()
		}
	}
}

// reopen polls for a newer manifest and, if the document count or
// commit count has moved, installs a fresh reader snapshot atomically.
// A failed reopen is logged and the current snapshot keeps serving
// traffic — a transient reopen failure must never interrupt reads.
func (e *Engine) reopen() {
	cur := e.current.Load()

	newIdx, err := zoneindex.OpenReadOnly(e.dir)
	if err != nil {
		e.log.Warn("snapshot reopen failed, keeping current snapshot", slog.String("error", err.Error()))
		return
	}

	curCount, curErr := cur.idx.DocCount()
	newCount, newErr := newIdx.DocCount()
	if curErr == nil && newErr == nil && curCount == newCount {
		_ = newIdx.Close()
		return
	}

	next := newSnapshot(newIdx)
	e.current.Store(next)
	cur.markRetiredAndMaybeClose()
	e.cache.invalidateAll(context.Background())
	e.log.Info("installed new reader snapshot", slog.Uint64("documents", newCount))
}

// acquireSnapshot pins the current snapshot for the duration of one
// query, retrying against whatever is current if the snapshot it loaded
// was fully drained and closed between the load and the acquire.
func (e *Engine) acquireSnapshot() (*snapshot, error) {
	for {
		snap := e.current.Load()
		if snap == nil || snap.idx == nil {
			return nil, ErrIndexUnavailable
		}
		if s, ok := snap.acquire(); ok {
			return s, nil
		}
	}
}

func splitQTokens(q string) []string {
	return strings.Fields(q)
}

func buildSearchRequest(qtokens []string, tld string, minMatch, overFetch int) *bleve.SearchRequest {
	disjuncts := make([]query.Query, 0, len(qtokens))
	for _, qt := range qtokens {
		tq := bleve.NewTermQuery(qt)
		tq.SetField("tokens")
		disjuncts = append(disjuncts, tq)
	}
	dq := bleve.NewDisjunctionQuery(disjuncts...)
	dq.SetMin(float64(minMatch))

	var q query.Query = dq
	if tld != "" {
		tldq := bleve.NewTermQuery(tld)
		tldq.SetField("tld")
		q = bleve.NewConjunctionQuery(dq, tldq)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = overFetch
	req.Fields = []string{"domain", "label", "tld", "tokens", "length", "has_hyphen"}
	return req
}

func overFetchBudget(limit int) int {
	if b := limit * 10; b > minOverFetch {
		return b
	}
	return minOverFetch
}
