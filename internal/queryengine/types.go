package queryengine

import "github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"

// SearchParams is the validated input to a keyword search.
type SearchParams struct {
	Q        string
	TLD      string
	Limit    int
	MinMatch int
}

// DefaultLimit and bounds for SearchParams.Limit.
const (
	DefaultLimit = 50
	MinLimit     = 1
	MaxLimit     = 500
)

// SearchResponse is the `/search` response envelope.
type SearchResponse struct {
	Results         []domain.Hit `json:"results"`
	TotalCandidates int          `json:"total_candidates"`
	QueryTimeMs     int64        `json:"query_time_ms"`
	Cached          bool         `json:"cached"`
}

// BulkQuery is one element of a `/search/bulk` request.
type BulkQuery struct {
	Q        string `json:"q"`
	TLD      string `json:"tld,omitempty"`
	MinMatch int    `json:"min_match,omitempty"`
}

// BulkResponse is the `/search/bulk` response envelope.
type BulkResponse struct {
	Results     []SearchResponse `json:"results"`
	TotalTimeMs int64            `json:"total_time_ms"`
}

// ExactResponse is the `/exact` response envelope.
type ExactResponse struct {
	Found       bool             `json:"found"`
	Domain      *domain.Document `json:"domain,omitempty"`
	QueryTimeMs int64            `json:"query_time_ms"`
}

// HealthResponse is the `/health` response envelope.
type HealthResponse struct {
	Status         string `json:"status"`
	IndexDocuments uint64 `json:"index_documents"`
	IndexSegments  int64  `json:"index_segments"`
	CacheEnabled   bool   `json:"cache_enabled"`
}
