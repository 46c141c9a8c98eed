package shared

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParsePagination reads page and pageSize query parameters and returns
// limit/offset values clamped to sane bounds.
func ParsePagination(r *http.Request) (limit, offset int) {
	page := 1
	size := defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return size, (page - 1) * size
}
