// internal/service/synonym/expander.go

package synonym

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"marketplace/internal/domain/search"
)

//go:embed synonyms.yaml
var defaultTable []byte

// Group is a canonical term and its related terms
type Group struct {
	Key      string   `yaml:"key"`
	Synonyms []string `yaml:"synonyms"`
}

type table struct {
	Groups []Group `yaml:"groups"`
}

// Expander maps a keyword token to the closed set of related job title terms.
// It is immutable after construction and safe for concurrent use.
type Expander struct {
	groups []Group
	byKey  map[string]int
}

// New builds an expander from synonym groups. Keys and synonyms are
// normalized; a blank or repeated key is an error.
func New(groups []Group) (*Expander, error) {
	e := &Expander{
		groups: make([]Group, 0, len(groups)),
		byKey:  make(map[string]int, len(groups)),
	}

	for i, g := range groups {
		key := search.Normalize(g.Key)
		if key == "" {
			return nil, fmt.Errorf("synonym group %d has an empty key", i)
		}
		if _, exists := e.byKey[key]; exists {
			return nil, fmt.Errorf("duplicate synonym group %q", key)
		}

		normalized := Group{Key: key}
		seen := map[string]bool{key: true}
		for _, s := range g.Synonyms {
			s = search.Normalize(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			normalized.Synonyms = append(normalized.Synonyms, s)
		}

		e.byKey[key] = len(e.groups)
		e.groups = append(e.groups, normalized)
	}

	return e, nil
}

// Load reads a YAML synonym table
func Load(r io.Reader) (*Expander, error) {
	var t table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("error decoding synonym table: %w", err)
	}
	return New(t.Groups)
}

// NewDefault builds the expander from the embedded job title table
func NewDefault() (*Expander, error) {
	return Load(strings.NewReader(string(defaultTable)))
}

// Len returns the number of synonym groups
func (e *Expander) Len() int {
	return len(e.groups)
}

// Expand returns the term followed by every related term. A term that is a
// canonical key contributes its own group; any group listing the term as a
// synonym contributes its key and synonyms as well, so lookups are symmetric
// even when the table is not. Unknown terms expand to themselves.
func (e *Expander) Expand(term string) []string {
	term = search.Normalize(term)
	if term == "" {
		return nil
	}

	out := []string{term}
	seen := map[string]bool{term: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	if idx, ok := e.byKey[term]; ok {
		for _, s := range e.groups[idx].Synonyms {
			add(s)
		}
	}

	// Full scan: the table only lists forward references
	for _, g := range e.groups {
		if !contains(g.Synonyms, term) {
			continue
		}
		add(g.Key)
		for _, s := range g.Synonyms {
			add(s)
		}
	}

	return out
}

// ExpandQuery tokenizes a free text query on whitespace and expands each
// token independently. There is no phrase awareness across tokens.
func (e *Expander) ExpandQuery(query string) []search.ExpandedTermSet {
	tokens := strings.Fields(strings.ToLower(query))
	sets := make([]search.ExpandedTermSet, 0, len(tokens))

	for _, token := range tokens {
		sets = append(sets, search.ExpandedTermSet{
			Original: token,
			Expanded: e.Expand(token),
		})
	}

	return sets
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
