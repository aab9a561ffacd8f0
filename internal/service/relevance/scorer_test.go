package relevance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manpowerRules = Rules{
	AvailableStatuses: []string{"available"},
	AvailabilityBonus: 3,
	DocumentBonus:     2,
	CredentialBonus:   1,
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		query  Query
		rules  Rules
		want   int
	}{
		{
			name:   "exact title",
			fields: Fields{Title: "Developer"},
			query:  Query{Keyword: "developer"},
			want:   TitleExact,
		},
		{
			name:   "title contains",
			fields: Fields{Title: "Senior Developer"},
			query:  Query{Keyword: "developer"},
			want:   TitleContains,
		},
		{
			name:   "title contains every token out of order",
			fields: Fields{Title: "Developer, Senior"},
			query:  Query{Keyword: "senior developer"},
			want:   TitleContains,
		},
		{
			name:   "title contains synonym only",
			fields: Fields{Title: "Backend Engineer"},
			query:  Query{Keyword: "developer", Expanded: []string{"developer", "backend", "engineer"}},
			want:   TitleSynonym,
		},
		{
			name:   "description contains",
			fields: Fields{Title: "Senior Consultant", Description: "Ten years as a developer"},
			query:  Query{Keyword: "developer"},
			want:   DescriptionContain,
		},
		{
			name:   "location exact",
			fields: Fields{Location: "Chennai"},
			query:  Query{Location: "chennai"},
			want:   LocationExact,
		},
		{
			name:   "location contains",
			fields: Fields{Location: "T Nagar, Chennai"},
			query:  Query{Location: "chennai"},
			want:   LocationContains,
		},
		{
			name:   "expanded location does not score",
			fields: Fields{Location: "Chennai"},
			query:  Query{Location: "madras"},
			want:   0,
		},
		{
			name:   "availability and completeness bonuses",
			fields: Fields{Title: "Welder", Status: "Available", Documents: 1, Credentials: 3},
			query:  Query{Keyword: "welder"},
			rules:  manpowerRules,
			want:   TitleExact + 3 + 2 + 3,
		},
		{
			name:   "no query terms scores zero",
			fields: Fields{Title: "Welder", Status: "available", Documents: 2},
			query:  Query{Keyword: "  "},
			rules:  manpowerRules,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.fields, tt.query, tt.rules))
		})
	}
}

func TestScoreOrdering(t *testing.T) {
	q := Query{Keyword: "Electrician", Location: "Dubai"}

	exact := Score(Fields{Title: "electrician"}, q, manpowerRules)
	contains := Score(Fields{Title: "Industrial Electrician"}, q, manpowerRules)
	assert.Greater(t, exact, contains)

	titleAndLocation := Score(Fields{Title: "Electrician", Location: "Dubai"}, q, manpowerRules)
	assert.Greater(t, titleAndLocation, exact)
}

type rec struct {
	id      string
	title   string
	created time.Time
}

func recFields(r rec) Fields {
	return Fields{ID: r.id, Title: r.title, CreatedAt: r.created}
}

func TestRank(t *testing.T) {
	now := time.Now()
	records := []rec{
		{id: "a", title: "Senior Developer", created: now.Add(-3 * time.Hour)},
		{id: "b", title: "Developer", created: now.Add(-2 * time.Hour)},
		{id: "c", title: "Lead Developer", created: now.Add(-1 * time.Hour)},
		{id: "d", title: "Lead Developer", created: now.Add(-1 * time.Hour)},
	}

	t.Run("score then recency then id", func(t *testing.T) {
		ranked := Rank(records, recFields, Query{Keyword: "developer"}, Rules{})
		require.Len(t, ranked, 4)

		var ids []string
		for _, s := range ranked {
			ids = append(ids, s.Record.id)
		}
		assert.Equal(t, []string{"b", "c", "d", "a"}, ids)
		assert.Equal(t, TitleExact, ranked[0].Score)
	})

	t.Run("repeated ranking is stable", func(t *testing.T) {
		first := Rank(records, recFields, Query{Keyword: "developer"}, Rules{})
		second := Rank(records, recFields, Query{Keyword: "developer"}, Rules{})
		assert.Equal(t, first, second)
	})

	t.Run("no keyword keeps store order", func(t *testing.T) {
		ranked := Rank(records, recFields, Query{Location: "riyadh"}, Rules{})
		for i, s := range ranked {
			assert.Equal(t, records[i].id, s.Record.id)
		}
	})
}
