// internal/service/search/manpower.go

package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
	"marketplace/internal/service/relevance"
)

// SearchManpower finds worker profiles by job title keyword, location and
// availability, ranked by relevance when a keyword is given
func (s *Service) SearchManpower(ctx context.Context, q search.Query) (*Response[ManpowerResult], error) {
	start := time.Now()
	p := s.expand(q)

	filter := s.manpowerQuery.Build(q, p.keywords, p.locations)
	records, err := s.manpower.FindManpower(ctx, filter)
	if err != nil {
		return nil, s.unavailable("manpower", err)
	}

	ranked := relevance.Rank(s.manpowerViews(records), manpowerFields, p.relevance(), manpowerRules)
	results := manpowerResults(ranked[:s.truncate(len(ranked))])

	s.logger.Debug("manpower search",
		zap.String("keyword", q.Keyword),
		zap.String("location", q.Location),
		zap.Int("candidates", len(records)),
		zap.Int("results", len(results)),
	)

	return newResponse(p.criteria(), results, start), nil
}

// GetManpower returns a single profile with its certificates decoded
func (s *Service) GetManpower(ctx context.Context, id uuid.UUID) (*ManpowerResult, error) {
	m, err := s.manpower.GetManpower(ctx, id)
	if err != nil {
		return nil, s.unavailable("manpower", err)
	}

	views := s.manpowerViews([]listing.Manpower{*m})
	return &manpowerResults([]relevance.Scored[manpowerView]{{Record: views[0]}})[0], nil
}
