// internal/service/gazetteer/gazetteer.go

package gazetteer

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"marketplace/internal/domain/search"
)

//go:embed gazetteer.yaml
var defaultTable []byte

// Place kinds
const (
	KindCountry = "country"
	KindRegion  = "region"
	KindState   = "state"
	KindEmirate = "emirate"
	KindCity    = "city"
	KindArea    = "area"
)

var validKinds = map[string]bool{
	KindCountry: true,
	KindRegion:  true,
	KindState:   true,
	KindEmirate: true,
	KindCity:    true,
	KindArea:    true,
}

// Place is one declared gazetteer row. Names listed under Regions, Cities or
// Areas become children of the place; names that are not declared elsewhere
// become leaf places of that kind.
type Place struct {
	Key     string   `yaml:"key"`
	Kind    string   `yaml:"kind"`
	Aliases []string `yaml:"aliases"`
	Codes   []string `yaml:"codes"`
	Parent  string   `yaml:"parent"`
	Regions []string `yaml:"regions"`
	Cities  []string `yaml:"cities"`
	Areas   []string `yaml:"areas"`
}

type table struct {
	Places []Place `yaml:"places"`
}

type entry struct {
	key      string
	kind     string
	aliases  []string
	codes    []string
	parent   string
	children []string
}

// Gazetteer resolves place names to every name contained in them.
// It is immutable after Build and safe for concurrent use.
type Gazetteer struct {
	entries map[string]*entry
	order   []string
	index   map[string][]string
}

// Build validates the places and assembles the containment tree. Keys must be
// unique, kinds known, parents must exist, no place may sit under two parents,
// and every place must be reachable from a top-level place.
func Build(places []Place) (*Gazetteer, error) {
	g := &Gazetteer{
		entries: make(map[string]*entry, len(places)),
		index:   make(map[string][]string),
	}

	for i, p := range places {
		key := search.Normalize(p.Key)
		if key == "" {
			return nil, fmt.Errorf("place %d has an empty key", i)
		}
		if _, exists := g.entries[key]; exists {
			return nil, fmt.Errorf("duplicate place %q", key)
		}
		kind := search.Normalize(p.Kind)
		if !validKinds[kind] {
			return nil, fmt.Errorf("place %q has unknown kind %q", key, p.Kind)
		}

		g.add(&entry{
			key:     key,
			kind:    kind,
			aliases: dedupe(append([]string{key}, p.Aliases...)),
			codes:   dedupe(p.Codes),
		})
	}

	// Declared names resolve by key first, then by a unique alias
	aliasOwner := make(map[string]string)
	ambiguous := make(map[string]bool)
	for _, key := range g.order {
		for _, a := range g.entries[key].aliases[1:] {
			if owner, ok := aliasOwner[a]; ok && owner != key {
				ambiguous[a] = true
			}
			aliasOwner[a] = key
		}
	}
	resolve := func(name string) (string, error) {
		if _, ok := g.entries[name]; ok {
			return name, nil
		}
		if ambiguous[name] {
			return "", fmt.Errorf("reference %q matches more than one place", name)
		}
		return aliasOwner[name], nil
	}

	for _, p := range places {
		key := search.Normalize(p.Key)
		parentName := search.Normalize(p.Parent)
		if parentName == "" {
			continue
		}
		parent, err := resolve(parentName)
		if err != nil {
			return nil, fmt.Errorf("error resolving parent of %q: %w", key, err)
		}
		if parent == "" {
			return nil, fmt.Errorf("place %q has unknown parent %q", key, p.Parent)
		}
		if err := g.link(key, parent); err != nil {
			return nil, err
		}
	}

	for _, p := range places {
		key := search.Normalize(p.Key)
		lists := []struct {
			kind  string
			names []string
		}{
			{KindRegion, p.Regions},
			{KindCity, p.Cities},
			{KindArea, p.Areas},
		}

		for _, list := range lists {
			for _, raw := range list.names {
				name := search.Normalize(raw)
				if name == "" {
					continue
				}
				child, err := resolve(name)
				if err != nil {
					return nil, fmt.Errorf("error resolving child of %q: %w", key, err)
				}
				if child == "" {
					if _, isLeaf := g.entries[name]; !isLeaf {
						g.add(&entry{key: name, kind: list.kind, aliases: []string{name}})
					}
					child = name
				}
				if err := g.link(child, key); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := g.checkReachable(); err != nil {
		return nil, err
	}

	for _, key := range g.order {
		e := g.entries[key]
		for _, name := range e.aliases {
			g.addIndex(name, key)
		}
		for _, code := range e.codes {
			g.addIndex(code, key)
		}
	}

	return g, nil
}

// Load reads a YAML gazetteer
func Load(r io.Reader) (*Gazetteer, error) {
	var t table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("error decoding gazetteer: %w", err)
	}
	return Build(t.Places)
}

// NewDefault builds the gazetteer from the embedded table
func NewDefault() (*Gazetteer, error) {
	return Load(strings.NewReader(string(defaultTable)))
}

// Len returns the number of places, including inline leaves
func (g *Gazetteer) Len() int {
	return len(g.order)
}

// ExpandLocation returns every name to search for when looking for records
// located at or within raw. A match on a key, alias, code or child name yields
// the matched place's aliases plus those of all its descendants; parents are
// never included. An ambiguous name yields the union over all its places.
// Unknown input falls back to itself, and blank input yields nothing.
func (g *Gazetteer) ExpandLocation(raw string) []string {
	name := search.Normalize(raw)
	if name == "" {
		return nil
	}

	keys, ok := g.index[name]
	if !ok {
		return []string{name}
	}

	var out []string
	seen := make(map[string]bool)
	for _, key := range keys {
		g.collect(key, seen, &out)
	}
	return out
}

func (g *Gazetteer) collect(key string, seen map[string]bool, out *[]string) {
	e := g.entries[key]
	for _, a := range e.aliases {
		if !seen[a] {
			seen[a] = true
			*out = append(*out, a)
		}
	}
	for _, child := range e.children {
		g.collect(child, seen, out)
	}
}

func (g *Gazetteer) add(e *entry) {
	g.entries[e.key] = e
	g.order = append(g.order, e.key)
}

func (g *Gazetteer) link(child, parent string) error {
	c := g.entries[child]
	switch c.parent {
	case parent:
		return nil
	case "":
		c.parent = parent
		p := g.entries[parent]
		p.children = append(p.children, child)
		return nil
	default:
		return fmt.Errorf("place %q is listed under both %q and %q", child, c.parent, parent)
	}
}

func (g *Gazetteer) addIndex(name, key string) {
	for _, k := range g.index[name] {
		if k == key {
			return
		}
	}
	g.index[name] = append(g.index[name], key)
}

// checkReachable walks down from every top-level place. Anything not reached
// sits on a parent cycle.
func (g *Gazetteer) checkReachable() error {
	visited := make(map[string]bool, len(g.entries))

	var walk func(key string)
	walk = func(key string) {
		if visited[key] {
			return
		}
		visited[key] = true
		for _, child := range g.entries[key].children {
			walk(child)
		}
	}

	for _, key := range g.order {
		if g.entries[key].parent == "" {
			walk(key)
		}
	}

	for _, key := range g.order {
		if !visited[key] {
			return fmt.Errorf("place %q is part of a containment cycle", key)
		}
	}
	return nil
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = search.Normalize(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
