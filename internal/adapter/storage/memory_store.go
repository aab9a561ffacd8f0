// internal/adapter/storage/memory_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
)

// Fixtures is the JSON document accepted by LoadFixtures
type Fixtures struct {
	Manpower  []listing.Manpower  `json:"manpower"`
	Jobs      []listing.Job       `json:"jobs"`
	Equipment []listing.Equipment `json:"equipment"`
}

// MemoryStore implements every record store over in-memory slices. Filters are
// evaluated with search.Filter.Match, so results agree with the SQL stores.
type MemoryStore struct {
	mu        sync.RWMutex
	manpower  []listing.Manpower
	jobs      []listing.Job
	equipment []listing.Equipment
}

// NewMemoryStore creates a store seeded with the fixtures
func NewMemoryStore(f Fixtures) *MemoryStore {
	return &MemoryStore{
		manpower:  append([]listing.Manpower(nil), f.Manpower...),
		jobs:      append([]listing.Job(nil), f.Jobs...),
		equipment: append([]listing.Equipment(nil), f.Equipment...),
	}
}

// LoadFixtures reads a JSON fixtures document into a new store
func LoadFixtures(r io.Reader) (*MemoryStore, error) {
	var f Fixtures
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("error decoding fixtures: %w", err)
	}
	return NewMemoryStore(f), nil
}

// FindManpower returns matching profiles, most recent first
func (s *MemoryStore) FindManpower(ctx context.Context, filter search.Filter) ([]listing.Manpower, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []listing.Manpower
	for _, m := range s.manpower {
		if filter.Match(m) {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID)
	})

	return capped(out, filter.Limit), nil
}

// GetManpower returns a single profile
func (s *MemoryStore) GetManpower(ctx context.Context, id uuid.UUID) (*listing.Manpower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.manpower {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, search.ErrNotFound
}

// TopJobTitles counts trimmed, non-empty job titles
func (s *MemoryStore) TopJobTitles(ctx context.Context, limit int) ([]listing.TitleCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	counts := make(map[string]int)
	for _, m := range s.manpower {
		if title := strings.TrimSpace(m.JobTitle); title != "" {
			counts[title]++
		}
	}
	s.mu.RUnlock()

	out := make([]listing.TitleCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, listing.TitleCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	return capped(out, limit), nil
}

// FindJobs returns matching jobs, most recently posted first
func (s *MemoryStore) FindJobs(ctx context.Context, filter search.Filter) ([]listing.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []listing.Job
	for _, j := range s.jobs {
		if filter.Match(j) {
			out = append(out, j)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].PostedDate.UnixNano(), out[j].PostedDate.UnixNano(), out[i].ID, out[j].ID)
	})

	return capped(out, filter.Limit), nil
}

// GetJob returns a single job
func (s *MemoryStore) GetJob(ctx context.Context, id uuid.UUID) (*listing.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.jobs {
		if j.ID == id {
			j := j
			return &j, nil
		}
	}
	return nil, search.ErrNotFound
}

// IncrementJobViews bumps the view counter of a job
func (s *MemoryStore) IncrementJobViews(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs[i].ViewsCount++
			return nil
		}
	}
	return search.ErrNotFound
}

// FindEquipment returns matching equipment, most recent first
func (s *MemoryStore) FindEquipment(ctx context.Context, filter search.Filter) ([]listing.Equipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []listing.Equipment
	for _, e := range s.equipment {
		if filter.Match(e) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID)
	})

	return capped(out, filter.Limit), nil
}

// EquipmentLocations returns the sorted distinct locations of active equipment
func (s *MemoryStore) EquipmentLocations(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range s.equipment {
		loc := strings.TrimSpace(e.Location)
		if !e.IsActive || loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, loc)
	}
	sort.Strings(out)

	return out, nil
}

func newerFirst(a, b int64, idA, idB uuid.UUID) bool {
	if a != b {
		return a > b
	}
	return idA.String() < idB.String()
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
