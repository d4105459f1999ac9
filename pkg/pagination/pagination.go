package pagination

import "math"

const (
	// DefaultPerPage is the standard page size when per_page is not provided.
	DefaultPerPage = 10
	// MaxPerPage caps how many rows any page query can request.
	MaxPerPage = 100
)

// Params holds page/per_page inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Meta is the page metadata returned alongside index results.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// Normalize clamps per_page to [1, maxPerPage] and page to at least 1 and
// at most the last page whose offset still fits in an int.
func (p Params) Normalize(defaultPerPage, maxPerPage int) Params {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if limit := math.MaxInt / maxPerPage; p.Page > limit {
		p.Page = limit
	}
	return p
}

// Offset is the number of rows skipped before the requested page.
func (p Params) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// NewMeta computes page metadata; last_page is never below 1.
func NewMeta(p Params, total int64) Meta {
	last := 1
	if p.PerPage > 0 && total > 0 {
		last = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return Meta{
		CurrentPage: p.Page,
		LastPage:    last,
		PerPage:     p.PerPage,
		Total:       total,
	}
}
