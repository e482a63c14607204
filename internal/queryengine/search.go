package queryengine

import (
	"context"
	"time"

	"github.com/blevesearch/bleve/v2/search"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
)

// Search executes a keyword search. It
// checks the result cache first, executes against the current reader
// snapshot on miss, re-ranks, then populates the cache.
func (e *Engine) Search(ctx context.Context, p SearchParams) (SearchResponse, error) {
	qtokens := canonicalTokens(splitQTokens(p.Q))
	if len(qtokens) == 0 {
		return SearchResponse{}, ErrEmptyQuery
	}
	if p.Limit < MinLimit || p.Limit > MaxLimit {
		return SearchResponse{}, ErrLimitOutOfRange
	}
	minMatch := p.MinMatch
	if minMatch < 1 {
		minMatch = 1
	}

	start := time.Now()
	key := searchFingerprint(qtokens, p.TLD, p.Limit, minMatch)

	var cached SearchResponse
	if e.cache.get(ctx, key, &cached) {
		cached.Cached = true
		cached.QueryTimeMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	resp, err := e.executeSearch(ctx, qtokens, p.TLD, p.Limit, minMatch)
	if err != nil {
		return SearchResponse{}, err
	}
	resp.QueryTimeMs = time.Since(start).Milliseconds()
	resp.Cached = false

	e.cache.set(ctx, key, resp)
	return resp, nil
}

func (e *Engine) executeSearch(ctx context.Context, qtokens []string, tld string, limit, minMatch int) (SearchResponse, error) {
	if minMatch > len(qtokens) {
		return SearchResponse{Results: []domain.Hit{}}, nil
	}

	snap, err := e.acquireSnapshot()
	if err != nil {
		return SearchResponse{}, err
	}
	defer snap.release()

	budget := overFetchBudget(limit)
	req := buildSearchRequest(qtokens, tld, minMatch, budget)

	result, err := snap.idx.SearchInContext(ctx, req)
	if err != nil {
		return SearchResponse{}, err
	}

	hits := make([]domain.Hit, 0, len(result.Hits))
	for _, m := range result.Hits {
		doc := documentFromFields(m)
		hits = append(hits, domain.Hit{
			Document:   doc,
			MatchCount: matchCount(doc.Tokens, qtokens),
			Score:      m.Score,
		})
	}

	ranked := rankHits(hits, limit)
	if ranked == nil {
		ranked = []domain.Hit{}
	}

	return SearchResponse{
		Results:         ranked,
		TotalCandidates: int(result.Total),
	}, nil
}

// documentFromFields rebuilds a domain.Document from a bleve stored-field
// match; tokens come back as either a single string or []interface{}
// depending on cardinality.
func documentFromFields(m *search.DocumentMatch) domain.Document {
	return domain.Document{
		Domain:    stringField(m.Fields["domain"]),
		Label:     stringField(m.Fields["label"]),
		TLD:       stringField(m.Fields["tld"]),
		Tokens:    stringSliceField(m.Fields["tokens"]),
		Length:    intField(m.Fields["length"]),
		HasHyphen: boolField(m.Fields["has_hyphen"]),
	}
}

func stringField(v interface{}) string {
	s, _ := v.(string)
	return s
}

func intField(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func boolField(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func stringSliceField(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}
