package common

import (
	"net/http"
	"strconv"
)

// PaginationParams represents offset-based pagination parameters
type PaginationParams struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Skip: 0,
		Take: 10,
	}
}

// ExtractPaginationParams extracts skip/take parameters from the request
// query string, clamping take to a sane upper bound.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if skip := r.URL.Query().Get("skip"); skip != "" {
		if s, err := strconv.Atoi(skip); err == nil && s >= 0 {
			params.Skip = s
		}
	}

	if take := r.URL.Query().Get("take"); take != "" {
		if t, err := strconv.Atoi(take); err == nil && t > 0 {
			if t > 100 {
				t = 100 // Max page size
			}
			params.Take = t
		}
	}

	return params
}
