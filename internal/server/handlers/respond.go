// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"marketplace/internal/domain/search"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, log *zap.Logger, code int, message string, err error) {
	if err != nil && code >= 500 {
		log.Error("HTTP error", zap.Int("code", code), zap.String("message", message), zap.Error(err))
	}

	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithSearchError maps the search error taxonomy to a status code
func respondWithSearchError(w http.ResponseWriter, log *zap.Logger, message string, err error) {
	switch {
	case errors.Is(err, search.ErrNotFound):
		respondWithError(w, log, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, search.ErrUnavailable):
		respondWithError(w, log, http.StatusServiceUnavailable, message, err)
	default:
		respondWithError(w, log, http.StatusInternalServerError, message, err)
	}
}
