package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// listQuery describes a paginated, optionally searched listing over one table.
// The count and page statements share the same WHERE clause so that both
// reads observe the same predicate.
type listQuery struct {
	table         string
	columns       []string
	searchColumns []string
	orderBy       []string // applied DESC, in order
}

// likeEscaper makes LIKE metacharacters in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps search as a substring pattern for ILIKE.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// where returns the search predicate and its arguments.
// An empty search produces no predicate.
func (q listQuery) where(search string) (string, []any) {
	if search == "" || len(q.searchColumns) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(q.searchColumns))
	for _, col := range q.searchColumns {
		clauses = append(clauses, pq.QuoteIdentifier(col)+" ILIKE $1")
	}

	return " WHERE (" + strings.Join(clauses, " OR ") + ")", []any{containsPattern(search)}
}

// countSQL builds the statement counting the whole filtered set.
func (q listQuery) countSQL(search string) (string, []any) {
	where, args := q.where(search)
	return "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(q.table) + where, args
}

// pageSQL builds the statement selecting one window of the ordered, filtered set.
func (q listQuery) pageSQL(search string, limit, offset int64) (string, []any) {
	where, args := q.where(search)

	cols := make([]string, 0, len(q.columns))
	for _, col := range q.columns {
		cols = append(cols, pq.QuoteIdentifier(col))
	}

	order := make([]string, 0, len(q.orderBy))
	for _, col := range q.orderBy {
		order = append(order, pq.QuoteIdentifier(col)+" DESC")
	}

	limitIdx := len(args) + 1
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(cols, ", "),
		pq.QuoteIdentifier(q.table),
		where,
		strings.Join(order, ", "),
		limitIdx, limitIdx+1,
	)

	return query, append(args, limit, offset)
}
