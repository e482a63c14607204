package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/queryengine"
)

type bulkRequest struct {
	Queries []queryengine.BulkQuery `json:"queries"`
	Limit   int                     `json:"limit,omitempty"`
}

// handleBulkSearch serves POST /search/bulk.
func (s *Server) handleBulkSearch(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = queryengine.DefaultLimit
	}

	resp, err := s.engine.BulkSearch(r.Context(), req.Queries, limit)
	if err != nil {
		handleEngineError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
