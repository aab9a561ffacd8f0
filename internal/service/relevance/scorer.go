// internal/service/relevance/scorer.go

package relevance

import (
	"sort"
	"strings"
	"time"

	"marketplace/internal/domain/search"
)

// Points awarded by Score
const (
	TitleExact         = 10
	TitleContains      = 5
	TitleSynonym       = 4
	DescriptionContain = 3
	LocationExact      = 10
	LocationContains   = 5
)

// Fields is the scoring view of one record
type Fields struct {
	ID          string
	Title       string
	Description string
	Location    string
	Status      string
	Documents   int
	Credentials int
	CreatedAt   time.Time
}

// Rules carries the entity specific bonuses
type Rules struct {
	AvailableStatuses []string
	AvailabilityBonus int
	DocumentBonus     int
	CredentialBonus   int
}

// Query is the original, unexpanded search input. Expanded holds the synonym
// expansions of the keyword tokens; it only earns the synonym title credit.
type Query struct {
	Keyword  string
	Location string
	Expanded []string
}

// HasTerms reports whether there is anything to score against
func (q Query) HasTerms() bool {
	return search.Normalize(q.Keyword) != "" || search.Normalize(q.Location) != ""
}

// Scored pairs a record with its relevance score
type Scored[T any] struct {
	Record T   `json:"record"`
	Score  int `json:"score"`
}

// Score computes the additive relevance of one record. A query with neither a
// keyword nor a location scores zero.
func Score(f Fields, q Query, r Rules) int {
	if !q.HasTerms() {
		return 0
	}

	score := 0

	if keyword := search.Normalize(q.Keyword); keyword != "" {
		tokens := strings.Fields(keyword)
		title := search.Normalize(f.Title)
		description := search.Normalize(f.Description)

		switch {
		case title == keyword:
			score += TitleExact
		case containsPhrase(title, keyword, tokens):
			score += TitleContains
		case containsAny(title, q.Expanded):
			score += TitleSynonym
		}

		if containsPhrase(description, keyword, tokens) {
			score += DescriptionContain
		}
	}

	if location := search.Normalize(q.Location); location != "" {
		recordLocation := search.Normalize(f.Location)
		switch {
		case recordLocation == location:
			score += LocationExact
		case strings.Contains(recordLocation, location):
			score += LocationContains
		}
	}

	for _, status := range r.AvailableStatuses {
		if strings.EqualFold(strings.TrimSpace(f.Status), status) {
			score += r.AvailabilityBonus
			break
		}
	}

	score += f.Documents * r.DocumentBonus
	score += f.Credentials * r.CredentialBonus

	return score
}

// Rank scores every record. With a keyword the result is ordered by score,
// then newest first, then id. Without one the incoming (recency) order is kept.
func Rank[T any](records []T, fields func(T) Fields, q Query, r Rules) []Scored[T] {
	out := make([]Scored[T], len(records))
	views := make([]Fields, len(records))
	for i, rec := range records {
		views[i] = fields(rec)
		out[i] = Scored[T]{Record: rec, Score: Score(views[i], q, r)}
	}

	if search.Normalize(q.Keyword) == "" {
		return out
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := idx[a], idx[b]
		if out[x].Score != out[y].Score {
			return out[x].Score > out[y].Score
		}
		if !views[x].CreatedAt.Equal(views[y].CreatedAt) {
			return views[x].CreatedAt.After(views[y].CreatedAt)
		}
		return views[x].ID < views[y].ID
	})

	ranked := make([]Scored[T], len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}

func containsPhrase(text, phrase string, tokens []string) bool {
	if text == "" {
		return false
	}
	if strings.Contains(text, phrase) {
		return true
	}
	if len(tokens) < 2 {
		return false
	}
	for _, t := range tokens {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func containsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	for _, t := range terms {
		t = search.Normalize(t)
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
