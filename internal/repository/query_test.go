package repository

import (
	"strings"
	"testing"
)

var testQuery = listQuery{
	table:         "users",
	columns:       []string{"id", "email"},
	searchColumns: []string{"first_name", "email"},
	orderBy:       []string{"created_at", "id"},
}

func TestContainsPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"plain", "ann", "%ann%"},
		{"percent is literal", "50%", `%50\%%`},
		{"underscore is literal", "a_b", `%a\_b%`},
		{"backslash is literal", `a\b`, `%a\\b%`},
		{"case preserved", "ANN", "%ANN%"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := containsPattern(tt.search); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.search, got, tt.want)
			}
		})
	}
}

func TestListQuery_CountSQL_Unfiltered(t *testing.T) {
	t.Parallel()

	sql, args := testQuery.countSQL("")
	want := `SELECT COUNT(*) FROM "users"`
	if sql != want {
		t.Errorf("countSQL = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestListQuery_CountSQL_Filtered(t *testing.T) {
	t.Parallel()

	sql, args := testQuery.countSQL("ann")
	want := `SELECT COUNT(*) FROM "users" WHERE ("first_name" ILIKE $1 OR "email" ILIKE $1)`
	if sql != want {
		t.Errorf("countSQL = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "%ann%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestListQuery_PageSQL_Unfiltered(t *testing.T) {
	t.Parallel()

	sql, args := testQuery.pageSQL("", 10, 20)
	want := `SELECT "id", "email" FROM "users" ORDER BY "created_at" DESC, "id" DESC LIMIT $1 OFFSET $2`
	if sql != want {
		t.Errorf("pageSQL = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != int64(10) || args[1] != int64(20) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestListQuery_PageSQL_Filtered(t *testing.T) {
	t.Parallel()

	sql, args := testQuery.pageSQL("ann", 5, 0)
	want := `SELECT "id", "email" FROM "users" WHERE ("first_name" ILIKE $1 OR "email" ILIKE $1) ORDER BY "created_at" DESC, "id" DESC LIMIT $2 OFFSET $3`
	if sql != want {
		t.Errorf("pageSQL = %q, want %q", sql, want)
	}
	if len(args) != 3 || args[0] != "%ann%" || args[1] != int64(5) || args[2] != int64(0) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestListQuery_SharesPredicate(t *testing.T) {
	t.Parallel()

	for _, search := range []string{"", "x", "50%"} {
		countWhere, countArgs := testQuery.where(search)
		pageSQL, pageArgs := testQuery.pageSQL(search, 1, 0)

		if countWhere != "" && !strings.Contains(pageSQL, countWhere) {
			t.Errorf("page statement %q does not reuse predicate %q", pageSQL, countWhere)
		}
		if len(countArgs) > 0 && pageArgs[0] != countArgs[0] {
			t.Errorf("page args %v do not start with predicate args %v", pageArgs, countArgs)
		}
	}
}
