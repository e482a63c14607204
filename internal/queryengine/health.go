package queryengine

// Health reports the `/health` snapshot.
func (e *Engine) Health() HealthResponse {
	resp := HealthResponse{Status: "ok", CacheEnabled: e.cacheOn}

	stats, err := e.Stats()
	if err != nil {
		resp.Status = "degraded"
		return resp
	}
	resp.IndexDocuments = stats.Documents
	resp.IndexSegments = stats.Segments
	return resp
}
