// utils/pagination.go
package utils

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination carries the normalized page/limit pair parsed from query
// parameters. Out-of-range values fall back to the defaults instead of
// erroring so listings always render.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination parses the raw page and limit query values.
func NewPagination(pageStr, limitStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Skip returns the number of documents to skip for this page.
func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// PageSize returns the limit as int64 for driver options.
func (p Pagination) PageSize() int64 {
	return int64(p.Limit)
}

// Meta builds the pagination block returned alongside listings.
func (p Pagination) Meta(total int64) map[string]interface{} {
	totalPages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		totalPages++
	}
	return map[string]interface{}{
		"page":       p.Page,
		"limit":      p.Limit,
		"total":      total,
		"totalPages": totalPages,
	}
}
