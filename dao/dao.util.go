package dao

import (
	"fmt"
	"regexp"
	"strings"
)

// branchSortColumns is the allow-list of sortable branch columns. Sort
// input never reaches SQL unless it maps through this table.
var branchSortColumns = map[string]string{
	"id":             "id",
	"name":           "name",
	"createdOn":      "createdOn",
	"updatedOn":      "updatedOn",
	"createdBy":      "createdBy",
	"lastModifiedBy": "lastModifiedBy",
}

// branchPatchColumns is the allow-list of updatable branch columns for
// batch patches. The controller validates fields against the entity
// allow-list first; this is the last line of defense at the store.
var branchPatchColumns = map[string]string{
	"name":           "name",
	"custom":         "custom",
	"archived":       "archived",
	"archivedBy":     "archivedBy",
	"archivedOn":     "archivedOn",
	"lastModifiedBy": "lastModifiedBy",
	"updatedOn":      "updatedOn",
}

// customPathPattern bounds the dot paths accepted for custom.* searches.
var customPathPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

// MaxPageSize defines the maximum limit of rows returned from a query to
// the database.
const MaxPageSize int = 10000

// GetSanitizedLimit clamps a requested limit to MaxPageSize. Zero means
// unbounded, which MySQL expresses as a very large row count.
func GetSanitizedLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// GetSanitizedSkip clamps a requested row offset.
func GetSanitizedSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

// buildOrderBy maps a sort request onto the column allow-list. Unknown
// columns fall back to insertion order by id.
func buildOrderBy(paging PagingRequest) string {
	column, ok := branchSortColumns[paging.SortBy]
	if !ok {
		column = "id"
	}
	direction := "asc"
	if paging.SortDescending {
		direction = "desc"
	}
	return fmt.Sprintf(" order by %s %s", column, direction)
}

// buildLimit renders limit/offset, or nothing when unbounded.
func buildLimit(paging PagingRequest) string {
	limit := GetSanitizedLimit(paging.Limit)
	skip := GetSanitizedSkip(paging.Skip)
	if limit == 0 && skip == 0 {
		return ""
	}
	if limit == 0 {
		// MySQL has no offset without limit
		return fmt.Sprintf(" limit 18446744073709551615 offset %d", skip)
	}
	return fmt.Sprintf(" limit %d offset %d", limit, skip)
}

// inPlaceholders renders (?,?,...) for n bound values.
func inPlaceholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?,", n), ",") + ")"
}

// ValidCustomPath reports whether a custom.* search path is safe to embed
// as a JSON path expression.
func ValidCustomPath(path string) bool {
	return customPathPattern.MatchString(path)
}
