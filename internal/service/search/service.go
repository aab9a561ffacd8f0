// internal/service/search/service.go

package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
	"marketplace/internal/logger"
	"marketplace/internal/service/query"
	"marketplace/internal/service/relevance"
)

// Expander expands keyword tokens into related job title terms
type Expander interface {
	Expand(term string) []string
	ExpandQuery(query string) []search.ExpandedTermSet
}

// Resolver expands a location into every place name contained in it
type Resolver interface {
	ExpandLocation(raw string) []string
}

// Config contains configuration for the search service
type Config struct {
	// CandidateLimit caps the rows fetched from a store per entity
	CandidateLimit int
	// ResultLimit caps the rows returned after ranking
	ResultLimit int
	// RecommendationLimit caps job recommendations for a profile
	RecommendationLimit int
}

// Service runs manpower, job, equipment and universal searches
type Service struct {
	synonyms  Expander
	places    Resolver
	manpower  search.ManpowerStore
	jobs      search.JobStore
	equipment search.EquipmentStore
	config    Config
	logger    *zap.Logger

	manpowerQuery  *query.Builder
	jobQuery       *query.Builder
	equipmentQuery *query.Builder

	universalManpower  *query.Builder
	universalJobs      *query.Builder
	universalEquipment *query.Builder
}

// Scoring rules per entity
var (
	manpowerRules = relevance.Rules{
		AvailableStatuses: []string{listing.StatusAvailable},
		AvailabilityBonus: 3,
		DocumentBonus:     2,
		CredentialBonus:   1,
	}
	jobRules       = relevance.Rules{}
	equipmentRules = relevance.Rules{
		AvailableStatuses: []string{listing.StatusAvailable},
		AvailabilityBonus: 3,
		DocumentBonus:     2,
		CredentialBonus:   1,
	}
)

var (
	openJobs = []search.Group{
		{Name: "status", Conditions: []search.Condition{{Column: "status", Op: search.OpEquals, Value: listing.StatusOpen}}},
		{Name: "not_expired", Conditions: []search.Condition{{Column: "expiry_date", Op: search.OpNotExpired}}},
	}
	activeAccounts = []search.Group{
		{Name: "account_active", Conditions: []search.Condition{{Column: "is_active", Op: search.OpIsTrue}}},
	}
	activeEquipment = []search.Group{
		{Name: "active", Conditions: []search.Condition{{Column: "is_active", Op: search.OpIsTrue}}},
	}
)

// NewService creates a new search service
func NewService(
	synonyms Expander,
	places Resolver,
	manpower search.ManpowerStore,
	jobs search.JobStore,
	equipment search.EquipmentStore,
	config Config,
	log *zap.Logger,
) *Service {
	if config.CandidateLimit <= 0 {
		config.CandidateLimit = query.DefaultLimit
	}
	if config.ResultLimit <= 0 {
		config.ResultLimit = query.DefaultLimit
	}
	if config.RecommendationLimit <= 0 {
		config.RecommendationLimit = 10
	}

	limit := config.CandidateLimit

	return &Service{
		synonyms:  synonyms,
		places:    places,
		manpower:  manpower,
		jobs:      jobs,
		equipment: equipment,
		config:    config,
		logger:    logger.OrNop(log).Named("search"),

		manpowerQuery: query.New(query.Spec{
			KeywordColumns: []string{"job_title", "profile_description"},
			LocationColumn: "location",
			FilterColumns:  map[string]string{search.FilterAvailability: "availability_status"},
			Baseline:       activeAccounts,
			Limit:          limit,
		}),
		jobQuery: query.New(query.Spec{
			KeywordColumns: []string{"job_title", "description", "company_name"},
			LocationColumn: "location",
			FilterColumns: map[string]string{
				search.FilterJobType:         "job_type",
				search.FilterExperienceLevel: "experience_level",
				search.FilterIndustry:        "industry",
			},
			Baseline: openJobs,
			Limit:    limit,
		}),
		equipmentQuery: query.New(query.Spec{
			KeywordColumns: []string{"equipment_name", "equipment_type"},
			LocationColumn: "location",
			FilterColumns:  map[string]string{search.FilterAvailability: "availability"},
			Baseline:       activeEquipment,
			Limit:          limit,
		}),

		universalManpower: query.New(query.Spec{
			KeywordColumns: []string{"first_name", "last_name", "job_title", "profile_description", "location"},
			LocationColumn: "location",
			Baseline:       activeAccounts,
			Limit:          limit,
		}),
		universalJobs: query.New(query.Spec{
			KeywordColumns: []string{"job_title", "company_name", "description", "industry", "location"},
			LocationColumn: "location",
			Baseline:       openJobs,
			Limit:          limit,
		}),
		universalEquipment: query.New(query.Spec{
			KeywordColumns: []string{"equipment_name", "equipment_type", "description", "location"},
			LocationColumn: "location",
			Baseline:       activeEquipment,
			Limit:          limit,
		}),
	}
}

// Response is the payload of a single entity search
type Response[T any] struct {
	SearchID uuid.UUID       `json:"search_id"`
	Criteria search.Criteria `json:"criteria"`
	Results  []T             `json:"results"`
	Count    int             `json:"count"`
	TookMS   int64           `json:"took_ms"`
}

// plan is the expanded form of one request
type plan struct {
	query     search.Query
	keywords  []search.ExpandedTermSet
	locations []string
}

func (s *Service) expand(q search.Query) plan {
	return plan{
		query:     q,
		keywords:  s.synonyms.ExpandQuery(q.Keyword),
		locations: s.places.ExpandLocation(q.Location),
	}
}

func (p plan) expandedTerms() []string {
	var out []string
	seen := make(map[string]bool)
	for _, set := range p.keywords {
		for _, term := range set.Expanded {
			if !seen[term] {
				seen[term] = true
				out = append(out, term)
			}
		}
	}
	return out
}

func (p plan) criteria() search.Criteria {
	return search.Criteria{
		Keyword:           p.query.Keyword,
		Location:          p.query.Location,
		Filters:           p.query.Filters,
		ExpandedKeywords:  p.expandedTerms(),
		ExpandedLocations: p.locations,
	}
}

func (p plan) relevance() relevance.Query {
	return relevance.Query{
		Keyword:  p.query.Keyword,
		Location: p.query.Location,
		Expanded: p.expandedTerms(),
	}
}

func (s *Service) truncate(n int) int {
	if n > s.config.ResultLimit {
		return s.config.ResultLimit
	}
	return n
}

// unavailable maps a store failure to the search taxonomy
func (s *Service) unavailable(entity string, err error) error {
	if errors.Is(err, search.ErrNotFound) {
		return err
	}
	s.logger.Error("record store failure", zap.String("entity", entity), zap.Error(err))
	return fmt.Errorf("%w: error querying %s: %w", search.ErrUnavailable, entity, err)
}

func newResponse[T any](c search.Criteria, results []T, start time.Time) *Response[T] {
	if results == nil {
		results = []T{}
	}
	return &Response[T]{
		SearchID: uuid.New(),
		Criteria: c,
		Results:  results,
		Count:    len(results),
		TookMS:   time.Since(start).Milliseconds(),
	}
}
