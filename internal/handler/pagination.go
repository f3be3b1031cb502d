package handler

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// PaginationParams are the skip/limit query parameters of list endpoints.
type PaginationParams struct {
	Skip  int
	Limit int
}

func ParsePagination(r *http.Request) PaginationParams {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if skip < 0 {
		skip = 0
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}
}

// paginate returns the page of items selected by p.
func paginate[T any](items []T, p PaginationParams) []T {
	if p.Skip >= len(items) {
		return items[:0]
	}
	end := min(p.Skip+p.Limit, len(items))
	return items[p.Skip:end]
}
