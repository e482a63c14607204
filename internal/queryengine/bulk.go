package queryengine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
)

// MaxBulkQueries is the cap on sub-queries per bulk request.
const MaxBulkQueries = 100

// bulkFanOut bounds how many sub-queries run concurrently per bulk
// request.
const bulkFanOut = 8

// BulkSearch executes up to MaxBulkQueries sub-queries concurrently,
// preserving input order in the response.
func (e *Engine) BulkSearch(ctx context.Context, queries []BulkQuery, limit int) (BulkResponse, error) {
	if len(queries) == 0 {
		return BulkResponse{}, ErrBulkEmpty
	}
	if len(queries) > MaxBulkQueries {
		return BulkResponse{}, ErrBulkTooMany
	}
	if limit < MinLimit || limit > MaxLimit {
		limit = DefaultLimit
	}

	start := time.Now()
	results := make([]SearchResponse, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkFanOut)

	for i, bq := range queries {
		i, bq := i, bq
		g.Go(func() error {
			resp, err := e.Search(gctx, SearchParams{
				Q:        bq.Q,
				TLD:      bq.TLD,
				Limit:    limit,
				MinMatch: bq.MinMatch,
			})
			if err != nil {
				// A sub-query's own validation error degrades to an
				// empty result rather than failing the whole batch —
				// each sub-query's cache hit/miss is independent and
				// so is its failure.
				results[i] = SearchResponse{Results: []domain.Hit{}}
				return nil
			}
			results[i] = resp
			return nil
		})
	}
	_ = g.Wait()

	return BulkResponse{
		Results:     results,
		TotalTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
