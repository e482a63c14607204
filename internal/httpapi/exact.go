package httpapi

import "net/http"

// handleExact serves GET /exact.
func (s *Server) handleExact(w http.ResponseWriter, r *http.Request) {
	domainName := r.URL.Query().Get("domain")

	resp, err := s.engine.Exact(r.Context(), domainName)
	if err != nil {
		handleEngineError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
