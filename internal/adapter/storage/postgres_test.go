package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketplace/internal/domain/search"
)

func TestWhereClause(t *testing.T) {
	filter := search.Filter{
		Groups: []search.Group{
			{Conditions: []search.Condition{
				{Column: "job_title", Op: search.OpContains, Value: "welder"},
				{Column: "description", Op: search.OpContains, Value: "welder"},
			}},
			{Conditions: []search.Condition{{Column: "status", Op: search.OpEquals, Value: "open"}}},
			{Conditions: []search.Condition{{Column: "expiry_date", Op: search.OpNotExpired}}},
		},
		Limit: 100,
	}

	clause, args := whereClause(filter, jobColumns, "j.posted_date DESC, j.id")

	assert.Equal(t,
		" WHERE (LOWER(COALESCE(j.job_title, '')) LIKE $1 OR LOWER(COALESCE(j.description, '')) LIKE $2)"+
			" AND (COALESCE(j.status, '') = $3)"+
			" AND ((j.expiry_date IS NULL OR j.expiry_date >= CURRENT_DATE))"+
			" ORDER BY j.posted_date DESC, j.id LIMIT $4",
		clause)
	assert.Equal(t, []interface{}{"%welder%", "%welder%", "open", 100}, args)
}

func TestWhereClauseWithoutGroups(t *testing.T) {
	clause, args := whereClause(search.Filter{}, manpowerColumns, "mp.created_at DESC, mp.id")
	assert.Equal(t, " WHERE TRUE ORDER BY mp.created_at DESC, mp.id", clause)
	assert.Empty(t, args)
}

func TestColumnMapsCoverRowColumns(t *testing.T) {
	for _, col := range []string{"job_title", "profile_description", "location", "availability_status", "first_name", "last_name", "is_active"} {
		assert.Contains(t, manpowerColumns, col)
	}
	for _, col := range []string{"job_title", "description", "company_name", "location", "job_type", "experience_level", "industry", "status", "expiry_date"} {
		assert.Contains(t, jobColumns, col)
	}
	for _, col := range []string{"equipment_name", "equipment_type", "description", "location", "availability", "is_active"} {
		assert.Contains(t, equipmentColumns, col)
	}
}
