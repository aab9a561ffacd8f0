// internal/domain/search/model.go

package search

import (
	"strings"
)

// Structured filter names accepted by the search endpoints
const (
	FilterAvailability    = "availability"
	FilterJobType         = "job_type"
	FilterExperienceLevel = "experience_level"
	FilterIndustry        = "industry"
)

// Query is the user supplied search input for one request
type Query struct {
	Keyword  string            `json:"keyword,omitempty"`
	Location string            `json:"location,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// Tokens splits the keyword on whitespace, lowercased
func (q Query) Tokens() []string {
	return strings.Fields(strings.ToLower(q.Keyword))
}

// HasKeyword reports whether the keyword has any non-blank content
func (q Query) HasKeyword() bool {
	return strings.TrimSpace(q.Keyword) != ""
}

// ExpandedTermSet is the expansion of one original keyword token
type ExpandedTermSet struct {
	Original string   `json:"original"`
	Expanded []string `json:"expanded"`
}

// Criteria echoes the search input back to the caller for display
type Criteria struct {
	Keyword           string            `json:"keyword,omitempty"`
	Location          string            `json:"location,omitempty"`
	Filters           map[string]string `json:"filters,omitempty"`
	ExpandedKeywords  []string          `json:"expanded_keywords,omitempty"`
	ExpandedLocations []string          `json:"expanded_locations,omitempty"`
}

// Normalize lowercases, trims and collapses inner whitespace
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
