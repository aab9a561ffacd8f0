// internal/server/handlers/search.go

package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"marketplace/internal/domain/search"
	"marketplace/internal/logger"
	searchService "marketplace/internal/service/search"
)

// Searcher runs the entity searches
type Searcher interface {
	SearchManpower(ctx context.Context, q search.Query) (*searchService.Response[searchService.ManpowerResult], error)
	SearchJobs(ctx context.Context, q search.Query) (*searchService.Response[searchService.JobResult], error)
	SearchEquipment(ctx context.Context, q search.Query) (*searchService.Response[searchService.EquipmentResult], error)
	SearchAll(ctx context.Context, q search.Query) (*searchService.UniversalResponse, error)
}

// Expander previews keyword expansion
type Expander interface {
	ExpandQuery(query string) []search.ExpandedTermSet
}

// Resolver previews location expansion
type Resolver interface {
	ExpandLocation(raw string) []string
}

// SearchHandler handles search HTTP requests
type SearchHandler struct {
	searcher Searcher
	synonyms Expander
	places   Resolver
	logger   *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher Searcher, synonyms Expander, places Resolver, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		synonyms: synonyms,
		places:   places,
		logger:   logger.OrNop(log),
	}
}

// filterParams are the structured filters read from the query string
var filterParams = []string{
	search.FilterAvailability,
	search.FilterJobType,
	search.FilterExperienceLevel,
	search.FilterIndustry,
}

// parseQuery reads the search input from the query string. The keyword may be
// sent as either q or keyword.
func parseQuery(r *http.Request) search.Query {
	values := r.URL.Query()

	keyword := values.Get("q")
	if keyword == "" {
		keyword = values.Get("keyword")
	}

	q := search.Query{
		Keyword:  strings.TrimSpace(keyword),
		Location: strings.TrimSpace(values.Get("location")),
	}

	for _, name := range filterParams {
		if v := strings.TrimSpace(values.Get(name)); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[name] = v
		}
	}

	return q
}

// SearchManpower searches manpower profiles
func (h *SearchHandler) SearchManpower(w http.ResponseWriter, r *http.Request) {
	resp, err := h.searcher.SearchManpower(r.Context(), parseQuery(r))
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to search manpower", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchJobs searches open job listings
func (h *SearchHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.searcher.SearchJobs(r.Context(), parseQuery(r))
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to search jobs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchEquipment searches active equipment listings
func (h *SearchHandler) SearchEquipment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.searcher.SearchEquipment(r.Context(), parseQuery(r))
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to search equipment", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchAll searches every entity type at once
func (h *SearchHandler) SearchAll(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	q.Filters = nil

	resp, err := h.searcher.SearchAll(r.Context(), q)
	if err != nil {
		respondWithSearchError(w, h.logger, "Failed to search", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// ExpandLocation returns every place name a location search would match
func (h *SearchHandler) ExpandLocation(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if strings.TrimSpace(raw) == "" {
		respondWithError(w, h.logger, http.StatusBadRequest, "Missing location", nil)
		return
	}

	locations := h.places.ExpandLocation(raw)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":     raw,
		"locations": locations,
		"count":     len(locations),
	})
}

// ExpandKeyword returns the synonym expansion of every keyword token
func (h *SearchHandler) ExpandKeyword(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if strings.TrimSpace(raw) == "" {
		respondWithError(w, h.logger, http.StatusBadRequest, "Missing keyword", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query": raw,
		"terms": h.synonyms.ExpandQuery(raw),
	})
}
