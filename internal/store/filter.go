package store

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Filter carries the common list-endpoint parameters: a case-insensitive
// substring query, an optional status filter, an inclusive date range and
// 1-indexed pagination.
type Filter struct {
	Query    string
	Status   string
	From     string
	To       string
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane bounds and trims the query.
func (f Filter) Normalize() Filter {
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.PageSize
}

// likeClause builds a grouped OR of lower(col) LIKE ? terms, one per column,
// so a query matching any single documented field still returns the row.
func likeClause(columns []string, pattern string, args *[]any) string {
	terms := make([]string, len(columns))
	for i, col := range columns {
		terms[i] = "lower(" + col + ") LIKE ?"
		*args = append(*args, pattern)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}
