// internal/server/handlers/listing.go

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace/internal/logger"
	searchService "marketplace/internal/service/search"
)

// Lister serves single records and listing rollups
type Lister interface {
	GetManpower(ctx context.Context, id uuid.UUID) (*searchService.ManpowerResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (*searchService.JobResult, error)
	RecommendJobs(ctx context.Context, manpowerID uuid.UUID) (*searchService.Response[searchService.JobResult], error)
	EquipmentLocations(ctx context.Context) ([]string, error)
}

// CategoryProvider serves the cached job title rollup
type CategoryProvider interface {
	Get(ctx context.Context) (*searchService.Categories, error)
	Refresh(ctx context.Context) (*searchService.Categories, error)
}

// ListingHandler handles listing detail HTTP requests
type ListingHandler struct {
	lister     Lister
	categories CategoryProvider
	logger     *zap.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(lister Lister, categories CategoryProvider, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		lister:     lister,
		categories: categories,
		logger:     logger.OrNop(log),
	}
}

// GetManpower returns a manpower profile by ID
func (h *ListingHandler) GetManpower(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	m, err := h.lister.GetManpower(r.Context(), id)
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to get manpower profile", err)
		return
	}

	respondWithJSON(w, http.StatusOK, m)
}

// RecommendJobs returns open jobs matching a manpower profile
func (h *ListingHandler) RecommendJobs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	resp, err := h.lister.RecommendJobs(r.Context(), id)
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to get job recommendations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetJob returns a job listing by ID and counts the view
func (h *ListingHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	j, err := h.lister.GetJob(r.Context(), id)
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to get job", err)
		return
	}

	respondWithJSON(w, http.StatusOK, j)
}

// GetCategories returns the most common manpower job titles
func (h *ListingHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Get(r.Context())
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to get categories", err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

// RefreshCategories reloads the job title rollup
func (h *ListingHandler) RefreshCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Refresh(r.Context())
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to refresh categories", err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

// EquipmentLocations returns the locations of active equipment
func (h *ListingHandler) EquipmentLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.lister.EquipmentLocations(r.Context())
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to get equipment locations", err)
		return
	}
	if locations == nil {
		locations = []string{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"count":     len(locations),
	})
}

func (h *ListingHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid ID", err)
		return uuid.Nil, false
	}
	return id, true
}
