// internal/service/search/equipment.go

package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"marketplace/internal/domain/search"
	"marketplace/internal/service/relevance"
)

// SearchEquipment finds active equipment by name or type, location and
// availability. Equipment names are not job titles, so there is no synonym
// expansion.
func (s *Service) SearchEquipment(ctx context.Context, q search.Query) (*Response[EquipmentResult], error) {
	start := time.Now()
	p := plan{
		query:     q,
		keywords:  literalTokens(q.Keyword),
		locations: s.places.ExpandLocation(q.Location),
	}

	filter := s.equipmentQuery.Build(q, p.keywords, p.locations)
	records, err := s.equipment.FindEquipment(ctx, filter)
	if err != nil {
		return nil, s.unavailable("equipment", err)
	}

	ranked := relevance.Rank(s.equipmentViews(records), equipmentFields, p.relevance(), equipmentRules)
	results := equipmentResults(ranked[:s.truncate(len(ranked))])

	s.logger.Debug("equipment search",
		zap.String("keyword", q.Keyword),
		zap.String("location", q.Location),
		zap.Int("candidates", len(records)),
		zap.Int("results", len(results)),
	)

	return newResponse(p.criteria(), results, start), nil
}

// literalTokens splits a keyword into tokens that each match only themselves
func literalTokens(keyword string) []search.ExpandedTermSet {
	tokens := search.Query{Keyword: keyword}.Tokens()
	sets := make([]search.ExpandedTermSet, 0, len(tokens))
	for _, t := range tokens {
		sets = append(sets, search.ExpandedTermSet{Original: t, Expanded: []string{t}})
	}
	return sets
}

// EquipmentLocations lists the distinct locations of active equipment
func (s *Service) EquipmentLocations(ctx context.Context) ([]string, error) {
	locations, err := s.equipment.EquipmentLocations(ctx)
	if err != nil {
		return nil, s.unavailable("equipment", err)
	}
	if locations == nil {
		locations = []string{}
	}
	return locations, nil
}
