// internal/service/query/builder.go

package query

import (
	"sort"
	"strings"

	"marketplace/internal/domain/search"
)

// DefaultLimit caps candidate fetches when a Spec sets no limit
const DefaultLimit = 100

// FilterAll is the structured filter value meaning "no filter"
const FilterAll = "all"

// Spec describes how one entity type is searched
type Spec struct {
	// KeywordColumns are substring-matched against every expanded keyword term
	KeywordColumns []string
	// LocationColumn is substring-matched against every expanded location name
	LocationColumn string
	// FilterColumns maps structured filter names to exact-match columns
	FilterColumns map[string]string
	// Baseline groups are always appended, e.g. "listing not expired"
	Baseline []search.Group
	Limit    int
}

// Builder turns expanded query terms into a record store filter
type Builder struct {
	spec        Spec
	filterNames []string
}

// New creates a builder for one entity type
func New(spec Spec) *Builder {
	if spec.Limit <= 0 {
		spec.Limit = DefaultLimit
	}

	names := make([]string, 0, len(spec.FilterColumns))
	for name := range spec.FilterColumns {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Builder{spec: spec, filterNames: names}
}

// Limit returns the candidate cap applied to every filter
func (b *Builder) Limit() int {
	return b.spec.Limit
}

// Build produces the filter for one request. Each original keyword token is
// its own AND group whose expansions are ORed across the keyword columns. The
// location names form one OR group. Structured filters are exact matches, one
// group each, in name order. Baseline groups come last.
func (b *Builder) Build(q search.Query, keywords []search.ExpandedTermSet, locations []string) search.Filter {
	f := search.Filter{Limit: b.spec.Limit}

	for _, set := range keywords {
		original := strings.TrimSpace(set.Original)
		if original == "" {
			continue
		}

		terms := set.Expanded
		if len(terms) == 0 {
			terms = []string{original}
		}

		g := search.Group{Name: "keyword:" + original}
		for _, term := range terms {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			for _, col := range b.spec.KeywordColumns {
				g.Conditions = append(g.Conditions, search.Condition{Column: col, Op: search.OpContains, Value: term})
			}
		}
		if len(g.Conditions) > 0 {
			f.Groups = append(f.Groups, g)
		}
	}

	if b.spec.LocationColumn != "" {
		g := search.Group{Name: "location"}
		for _, name := range locations {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			g.Conditions = append(g.Conditions, search.Condition{Column: b.spec.LocationColumn, Op: search.OpContains, Value: name})
		}
		if len(g.Conditions) > 0 {
			f.Groups = append(f.Groups, g)
		}
	}

	for _, name := range b.filterNames {
		value := strings.TrimSpace(q.Filters[name])
		if value == "" || strings.EqualFold(value, FilterAll) {
			continue
		}
		f.Groups = append(f.Groups, search.Group{
			Name:       name,
			Conditions: []search.Condition{{Column: b.spec.FilterColumns[name], Op: search.OpEquals, Value: value}},
		})
	}

	f.Groups = append(f.Groups, b.spec.Baseline...)

	return f
}
