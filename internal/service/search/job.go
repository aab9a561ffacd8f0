// internal/service/search/job.go

package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace/internal/domain/search"
	"marketplace/internal/service/relevance"
)

// SearchJobs finds open, unexpired jobs by keyword, location, job type,
// experience level and industry
func (s *Service) SearchJobs(ctx context.Context, q search.Query) (*Response[JobResult], error) {
	start := time.Now()
	p := s.expand(q)

	filter := s.jobQuery.Build(q, p.keywords, p.locations)
	records, err := s.jobs.FindJobs(ctx, filter)
	if err != nil {
		return nil, s.unavailable("jobs", err)
	}

	ranked := relevance.Rank(records, jobFields, p.relevance(), jobRules)
	results := jobResults(ranked[:s.truncate(len(ranked))])

	s.logger.Debug("job search",
		zap.String("keyword", q.Keyword),
		zap.String("location", q.Location),
		zap.Int("candidates", len(records)),
		zap.Int("results", len(results)),
	)

	return newResponse(p.criteria(), results, start), nil
}

// GetJob returns a job and counts the view. A failed view increment is
// logged and does not fail the lookup.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*JobResult, error) {
	j, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, s.unavailable("jobs", err)
	}

	if err := s.jobs.IncrementJobViews(ctx, id); err != nil {
		s.logger.Warn("error incrementing job views", zap.String("id", id.String()), zap.Error(err))
	} else {
		j.ViewsCount++
	}

	return &JobResult{Job: *j}, nil
}

// RecommendJobs suggests open jobs for a manpower profile. A job qualifies
// when its title matches the profile's title or its location falls within
// the profile's location; both together rank highest.
func (s *Service) RecommendJobs(ctx context.Context, manpowerID uuid.UUID) (*Response[JobResult], error) {
	start := time.Now()

	m, err := s.manpower.GetManpower(ctx, manpowerID)
	if err != nil {
		return nil, s.unavailable("manpower", err)
	}

	// "T Nagar, Chennai" resolves on its first segment
	location := strings.TrimSpace(strings.Split(m.Location, ",")[0])
	q := search.Query{Keyword: m.JobTitle, Location: location}

	p := plan{query: q, locations: s.places.ExpandLocation(location)}
	if title := search.Normalize(m.JobTitle); title != "" {
		p.keywords = []search.ExpandedTermSet{{Original: title, Expanded: s.synonyms.Expand(title)}}
	}

	match := search.Group{Name: "title_or_location"}
	for _, term := range p.expandedTerms() {
		match.Conditions = append(match.Conditions, search.Condition{Column: "job_title", Op: search.OpContains, Value: term})
	}
	for _, loc := range p.locations {
		match.Conditions = append(match.Conditions, search.Condition{Column: "location", Op: search.OpContains, Value: loc})
	}
	if len(match.Conditions) == 0 {
		return newResponse[JobResult](p.criteria(), nil, start), nil
	}

	filter := search.Filter{
		Groups: append([]search.Group{match}, openJobs...),
		Limit:  s.config.CandidateLimit,
	}
	records, err := s.jobs.FindJobs(ctx, filter)
	if err != nil {
		return nil, s.unavailable("jobs", err)
	}

	ranked := relevance.Rank(records, jobFields, p.relevance(), jobRules)
	n := len(ranked)
	if n > s.config.RecommendationLimit {
		n = s.config.RecommendationLimit
	}

	return newResponse(p.criteria(), jobResults(ranked[:n]), start), nil
}
