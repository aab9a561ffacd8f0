// internal/domain/search/filter.go

package search

import (
	"fmt"
	"strings"
	"time"
)

// Op is a predicate operator understood by every record store
type Op int

const (
	// OpContains is a case-insensitive substring match
	OpContains Op = iota
	// OpEquals is an exact match
	OpEquals
	// OpIsTrue matches a true boolean column; Value is ignored
	OpIsTrue
	// OpNotExpired matches a null date or one on/after today; Value is ignored
	OpNotExpired
)

// Condition is a single column predicate
type Condition struct {
	Column string
	Op     Op
	Value  string
}

// Group is a set of conditions joined with OR
type Group struct {
	Name       string
	Conditions []Condition
}

// Filter is a set of groups joined with AND, plus a result cap
type Filter struct {
	Groups []Group
	Limit  int
}

// Row is a record that can be evaluated against a Filter in memory
type Row interface {
	Value(column string) any
}

// Match evaluates the filter against a row
func (f Filter) Match(row Row) bool {
	for _, g := range f.Groups {
		if !g.match(row) {
			return false
		}
	}
	return true
}

func (g Group) match(row Row) bool {
	for _, c := range g.Conditions {
		if c.match(row) {
			return true
		}
	}
	return false
}

func (c Condition) match(row Row) bool {
	v := row.Value(c.Column)

	switch c.Op {
	case OpContains:
		s, ok := v.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(c.Value))

	case OpEquals:
		s, ok := v.(string)
		return ok && s == c.Value

	case OpIsTrue:
		b, ok := v.(bool)
		return ok && b

	case OpNotExpired:
		today := startOfDay(time.Now())
		switch t := v.(type) {
		case nil:
			return true
		case *time.Time:
			return t == nil || !t.Before(today)
		case time.Time:
			return t.IsZero() || !t.Before(today)
		}
		return false
	}

	return false
}

// SQL renders the filter as a Postgres boolean expression using $n placeholders
// numbered from startArg. columns maps logical column names to qualified SQL
// expressions; unmapped names are used as-is.
func (f Filter) SQL(startArg int, columns map[string]string) (string, []any) {
	if len(f.Groups) == 0 {
		return "TRUE", nil
	}

	var clauses []string
	var args []any
	argIndex := startArg

	for _, g := range f.Groups {
		var parts []string
		for _, c := range g.Conditions {
			col := c.Column
			if mapped, ok := columns[col]; ok {
				col = mapped
			}

			switch c.Op {
			case OpContains:
				parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE $%d", col, argIndex))
				args = append(args, LikePattern(c.Value))
				argIndex++
			case OpEquals:
				parts = append(parts, fmt.Sprintf("%s = $%d", col, argIndex))
				args = append(args, c.Value)
				argIndex++
			case OpIsTrue:
				parts = append(parts, fmt.Sprintf("%s = TRUE", col))
			case OpNotExpired:
				parts = append(parts, fmt.Sprintf("(%s IS NULL OR %s >= CURRENT_DATE)", col, col))
			}
		}

		if len(parts) == 0 {
			continue
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "TRUE", nil
	}

	return strings.Join(clauses, " AND "), args
}

// LikePattern builds a lowercase %value% pattern with LIKE metacharacters escaped
func LikePattern(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(value)) + "%"
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
