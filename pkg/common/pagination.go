package common

import (
	"net/http"
	"strconv"
)

// MaxPageSize is the hard ceiling on items per page.
const MaxPageSize = 50

// DefaultPageSize is used when the caller does not specify a limit.
const DefaultPageSize = 10

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: DefaultPageSize,
	}
}

// ExtractPaginationParams extracts pagination parameters from request
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.Limit = l
		}
	}

	return params
}

// Clamp caps the limit at MaxPageSize and floors it at 1.
func (p PaginationParams) Clamp() PaginationParams {
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	return p
}

// Offset calculates the slice offset for the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationInfo contains pagination details
type PaginationInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata
func BuildPaginationMeta(page, limit, total int) *PaginationInfo {
	totalPages := CalculateTotalPages(total, limit)

	return &PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
