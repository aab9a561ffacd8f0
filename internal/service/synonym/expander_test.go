package synonym

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultExpander(t *testing.T) *Expander {
	t.Helper()
	e, err := NewDefault()
	require.NoError(t, err)
	return e
}

func TestExpandCanonicalKeyIsSupersetOfGroup(t *testing.T) {
	e := defaultExpander(t)

	for _, g := range e.groups {
		got := e.Expand(g.Key)
		assert.Contains(t, got, g.Key)
		for _, s := range g.Synonyms {
			assert.Contains(t, got, s, "expand(%q) should contain %q", g.Key, s)
		}
	}
}

func TestExpandIsSymmetric(t *testing.T) {
	e := defaultExpander(t)

	for _, g := range e.groups {
		for _, s := range g.Synonyms {
			assert.Contains(t, e.Expand(s), g.Key, "expand(%q) should contain key %q", s, g.Key)
		}
	}
}

func TestExpand(t *testing.T) {
	e := defaultExpander(t)

	t.Run("unknown term is identity", func(t *testing.T) {
		assert.Equal(t, []string{"astronaut"}, e.Expand("astronaut"))
	})

	t.Run("normalizes input", func(t *testing.T) {
		got := e.Expand("  DEVELOPER ")
		assert.Equal(t, "developer", got[0])
		assert.Contains(t, got, "backend")
	})

	t.Run("blank term", func(t *testing.T) {
		assert.Empty(t, e.Expand("   "))
	})

	t.Run("synonym only term pulls in its group", func(t *testing.T) {
		got := e.Expand("coder")
		assert.Equal(t, "coder", got[0])
		assert.Contains(t, got, "developer")
		assert.Contains(t, got, "fullstack")
	})

	t.Run("key that is also a synonym gets the referring group", func(t *testing.T) {
		// frontend's own group does not list developer
		got := e.Expand("frontend")
		assert.Contains(t, got, "react")
		assert.Contains(t, got, "developer")
	})

	t.Run("no duplicates", func(t *testing.T) {
		got := e.Expand("engineer")
		seen := map[string]bool{}
		for _, s := range got {
			assert.False(t, seen[s], "duplicate %q", s)
			seen[s] = true
		}
	})
}

func TestExpandQuery(t *testing.T) {
	e := defaultExpander(t)

	sets := e.ExpandQuery("Senior  welder")
	require.Len(t, sets, 2)
	assert.Equal(t, "senior", sets[0].Original)
	assert.Contains(t, sets[0].Expanded, "principal")
	assert.Equal(t, "welder", sets[1].Original)
	assert.Contains(t, sets[1].Expanded, "fabricator")

	assert.Empty(t, e.ExpandQuery("   "))
}

func TestLoad(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		e, err := Load(strings.NewReader("groups:\n  - key: Nurse\n    synonyms: [RN, staff nurse, rn]\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, e.Len())
		assert.Equal(t, []string{"nurse", "rn", "staff nurse"}, e.Expand("nurse"))
		assert.Equal(t, []string{"rn", "nurse", "staff nurse"}, e.Expand("RN"))
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := Load(strings.NewReader("groups:\n  - key: a\n  - key: A\n"))
		assert.Error(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := New([]Group{{Key: " ", Synonyms: []string{"x"}}})
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(strings.NewReader("groups: [: nope"))
		assert.Error(t, err)
	})
}
