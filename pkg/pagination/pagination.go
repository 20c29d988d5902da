package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any paginated query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes one result page for response envelopes.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to at least one.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// FromQuery extracts pagination parameters from a URL query.
func FromQuery(query url.Values) Params {
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return Params{
		Page:  NormalizePage(page),
		Limit: NormalizeLimit(limit),
	}
}

// Offset returns the row offset for the normalized page/limit pair.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// MetaFor builds response metadata from the query totals.
func MetaFor(params Params, total int64) Meta {
	limit := NormalizeLimit(params.Limit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       NormalizePage(params.Page),
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}
