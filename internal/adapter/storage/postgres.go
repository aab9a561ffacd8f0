// internal/adapter/storage/postgres.go

package storage

import (
	"fmt"

	"marketplace/internal/domain/search"
)

// whereClause renders the filter and appends a LIMIT placeholder
func whereClause(filter search.Filter, columns map[string]string, orderBy string) (string, []interface{}) {
	where, args := filter.SQL(1, columns)
	clause := " WHERE " + where + " ORDER BY " + orderBy

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return clause, args
}

func text(column string) string {
	return "COALESCE(" + column + ", '')"
}
