package shared

import (
	"math"
	"net/url"
	"strconv"
)

// DefaultPageSize is used when a listing request does not name one.
const DefaultPageSize = 20

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PageParams reads page/page_size query parameters with defaults.
func PageParams(q url.Values) (page, perPage int) {
	page, _ = strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage, _ = strconv.Atoi(q.Get("page_size"))
	if perPage <= 0 || perPage > 100 {
		perPage = DefaultPageSize
	}
	return page, perPage
}

// Window returns the half-open [start, end) slice bounds for the page over a
// collection of the given length.
func (p Pagination) Window(length int) (int, int) {
	start := (p.Page - 1) * p.PerPage
	if start > length {
		start = length
	}
	end := start + p.PerPage
	if end > length {
		end = length
	}
	return start, end
}
