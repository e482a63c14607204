package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/queryengine"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// classify maps a queryengine error to its HTTP status: validation
// errors are 400, anything else is 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, queryengine.ErrEmptyQuery),
		errors.Is(err, queryengine.ErrLimitOutOfRange),
		errors.Is(err, queryengine.ErrBulkEmpty),
		errors.Is(err, queryengine.ErrBulkTooMany),
		errors.Is(err, queryengine.ErrInvalidDomain):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func handleEngineError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		log.Error("query execution failed", slog.String("error", err.Error()))
	}
	writeError(w, status, msg)
}
