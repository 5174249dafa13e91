// internal/app/system/paging/paging.go

// Package paging implements the API's offset pagination contract:
// 1-indexed page numbers, a capped per-page limit, and a total count
// returned alongside every page so clients can do their own math.
package paging

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when the caller does not pass one.
	DefaultLimit = 20
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
)

// Params is a parsed (page, limit) pair. Page is always >= 1 and Limit
// is always within (0, MaxLimit].
type Params struct {
	Page  int
	Limit int
}

// Parse reads page/limit query parameters, falling back to sane values:
// page < 1 becomes 1, limit < 1 becomes DefaultLimit, limit > MaxLimit
// is clamped. Invalid numbers are treated as absent, never errors.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// PageInfo is the pagination block embedded in list responses.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Info computes the response pagination block for a total count.
// A zero total still reports one (empty) page.
func (p Params) Info(total int64) PageInfo {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if pages < 1 {
		pages = 1
	}
	return PageInfo{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
