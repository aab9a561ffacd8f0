// internal/service/search/universal.go

package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketplace/internal/domain/search"
	"marketplace/internal/service/relevance"
)

// UniversalResults groups the matches of every entity type
type UniversalResults struct {
	Manpower  []ManpowerResult  `json:"manpower"`
	Jobs      []JobResult       `json:"jobs"`
	Equipment []EquipmentResult `json:"equipment"`
}

// UniversalResponse is the payload of a search across all entity types
type UniversalResponse struct {
	SearchID uuid.UUID        `json:"search_id"`
	Criteria search.Criteria  `json:"criteria"`
	Results  UniversalResults `json:"results"`
	Count    int              `json:"count"`
	TookMS   int64            `json:"took_ms"`
}

// SearchAll matches the whole keyword phrase as a substring across the
// searchable columns of every entity type, without synonyms. The stores are
// queried concurrently; any store failure fails the whole search. A query with
// neither keyword nor location returns an empty result.
func (s *Service) SearchAll(ctx context.Context, q search.Query) (*UniversalResponse, error) {
	start := time.Now()

	phrase := search.Normalize(q.Keyword)
	p := plan{query: q, locations: s.places.ExpandLocation(q.Location)}
	if phrase != "" {
		p.keywords = []search.ExpandedTermSet{{Original: phrase, Expanded: []string{phrase}}}
	}

	resp := &UniversalResponse{
		SearchID: uuid.New(),
		Criteria: p.criteria(),
		Results: UniversalResults{
			Manpower:  []ManpowerResult{},
			Jobs:      []JobResult{},
			Equipment: []EquipmentResult{},
		},
	}

	if phrase == "" && len(p.locations) == 0 {
		resp.TookMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	// Universal filters carry no structured filters
	bare := search.Query{}
	rq := p.relevance()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.manpower.FindManpower(gctx, s.universalManpower.Build(bare, p.keywords, p.locations))
		if err != nil {
			return s.unavailable("manpower", err)
		}
		ranked := relevance.Rank(s.manpowerViews(records), manpowerFields, rq, manpowerRules)
		resp.Results.Manpower = manpowerResults(ranked[:s.truncate(len(ranked))])
		return nil
	})

	g.Go(func() error {
		records, err := s.jobs.FindJobs(gctx, s.universalJobs.Build(bare, p.keywords, p.locations))
		if err != nil {
			return s.unavailable("jobs", err)
		}
		ranked := relevance.Rank(records, jobFields, rq, jobRules)
		resp.Results.Jobs = jobResults(ranked[:s.truncate(len(ranked))])
		return nil
	})

	g.Go(func() error {
		records, err := s.equipment.FindEquipment(gctx, s.universalEquipment.Build(bare, p.keywords, p.locations))
		if err != nil {
			return s.unavailable("equipment", err)
		}
		ranked := relevance.Rank(s.equipmentViews(records), equipmentFields, rq, equipmentRules)
		resp.Results.Equipment = equipmentResults(ranked[:s.truncate(len(ranked))])
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.Count = len(resp.Results.Manpower) + len(resp.Results.Jobs) + len(resp.Results.Equipment)
	resp.TookMS = time.Since(start).Milliseconds()

	s.logger.Debug("universal search",
		zap.String("keyword", q.Keyword),
		zap.Int("results", resp.Count),
	)

	return resp, nil
}
