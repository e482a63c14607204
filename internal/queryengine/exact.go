package queryengine

import (
	"context"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
)

// Exact performs a single term match on the `domain` field. The input must contain a `.` separator.
func (e *Engine) Exact(ctx context.Context, domainName string) (ExactResponse, error) {
	domainName = strings.ToLower(strings.TrimSpace(domainName))
	if !strings.Contains(domainName, ".") {
		return ExactResponse{}, ErrInvalidDomain
	}

	start := time.Now()
	key := exactFingerprint(domainName)

	var cached ExactResponse
	if e.cache.get(ctx, key, &cached) {
		cached.QueryTimeMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	snap, err := e.acquireSnapshot()
	if err != nil {
		return ExactResponse{}, err
	}
	defer snap.release()

	tq := bleve.NewTermQuery(domainName)
	tq.SetField("domain")
	req := bleve.NewSearchRequest(tq)
	req.Size = 1
	req.Fields = []string{"domain", "label", "tld", "tokens", "length", "has_hyphen"}

	result, err := snap.idx.SearchInContext(ctx, req)
	if err != nil {
		return ExactResponse{}, err
	}

	resp := ExactResponse{Found: false}
	if len(result.Hits) > 0 {
		doc := documentFromFields(result.Hits[0])
		resp.Found = true
		resp.Domain = &doc
	}

	e.cache.set(ctx, key, resp)
	resp.QueryTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}
