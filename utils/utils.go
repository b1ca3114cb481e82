package utils

import (
	"math"
	"strings"
)

// Pagination is the paging block of list responses
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// Paginate builds the paging block for a total row count
func Paginate(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, CurrentPage: page, TotalPages: pages, Limit: limit}
}

// LikePattern wraps a search term for a LIKE against a LOWER()ed column
func LikePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
