package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapRow map[string]any

func (r mapRow) Value(column string) any { return r[column] }

func TestFilterSQL(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		where, args := Filter{}.SQL(1, nil)
		assert.Equal(t, "TRUE", where)
		assert.Empty(t, args)
	})

	t.Run("groups are ANDed and conditions ORed", func(t *testing.T) {
		f := Filter{Groups: []Group{
			{Name: "keyword", Conditions: []Condition{
				{Column: "job_title", Op: OpContains, Value: "Developer"},
				{Column: "description", Op: OpContains, Value: "developer"},
			}},
			{Name: "job_type", Conditions: []Condition{{Column: "job_type", Op: OpEquals, Value: "full-time"}}},
			{Name: "baseline", Conditions: []Condition{{Column: "expiry_date", Op: OpNotExpired}}},
			{Name: "active", Conditions: []Condition{{Column: "is_active", Op: OpIsTrue}}},
		}}

		where, args := f.SQL(3, map[string]string{"job_title": "j.job_title"})

		assert.Equal(t,
			"(LOWER(j.job_title) LIKE $3 OR LOWER(description) LIKE $4) AND (job_type = $5)"+
				" AND ((expiry_date IS NULL OR expiry_date >= CURRENT_DATE)) AND (is_active = TRUE)",
			where)
		assert.Equal(t, []any{"%developer%", "%developer%", "full-time"}, args)
	})

	t.Run("empty groups are skipped", func(t *testing.T) {
		where, args := Filter{Groups: []Group{{Name: "nothing"}}}.SQL(1, nil)
		assert.Equal(t, "TRUE", where)
		assert.Empty(t, args)
	})
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%chennai%", LikePattern("Chennai"))
	assert.Equal(t, `%50\%\_off\\%`, LikePattern(`50%_off\`))
}

func TestFilterMatch(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	f := Filter{Groups: []Group{
		{Conditions: []Condition{
			{Column: "location", Op: OpContains, Value: "chennai"},
			{Column: "location", Op: OpContains, Value: "madras"},
		}},
		{Conditions: []Condition{{Column: "expiry_date", Op: OpNotExpired}}},
	}}

	tests := []struct {
		name string
		row  mapRow
		want bool
	}{
		{name: "alias match, no expiry", row: mapRow{"location": "Chennai, India", "expiry_date": (*time.Time)(nil)}, want: true},
		{name: "future expiry", row: mapRow{"location": "Old Madras", "expiry_date": &tomorrow}, want: true},
		{name: "expired", row: mapRow{"location": "Chennai", "expiry_date": &yesterday}, want: false},
		{name: "no location match", row: mapRow{"location": "Mumbai"}, want: false},
		{name: "missing column", row: mapRow{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.row))
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	q := Query{Keyword: "  Senior   Developer "}
	assert.True(t, q.HasKeyword())
	assert.Equal(t, []string{"senior", "developer"}, q.Tokens())
	assert.False(t, Query{Keyword: "   "}.HasKeyword())
	assert.Equal(t, "tamil nadu", Normalize("  Tamil   NADU "))
}
