package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/queryengine"
)

// handleSearch serves GET /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := queryengine.SearchParams{
		Q:        q.Get("q"),
		TLD:      q.Get("tld"),
		Limit:    queryengine.DefaultLimit,
		MinMatch: 1,
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		params.Limit = n
	}
	if v := q.Get("min_match"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_match must be an integer")
			return
		}
		params.MinMatch = n
	}

	resp, err := s.engine.Search(r.Context(), params)
	if err != nil {
		handleEngineError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
