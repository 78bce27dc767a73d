package aemsearch

import "strings"

// Query defaults applied by NewSearchQuery.
const (
	DefaultLimit          = 10
	DefaultFuzzyThreshold = 0.7
	DefaultSearchDepth    = 3
)

// SearchQuery describes a single search request. It is a value type;
// derive modified copies instead of mutating a shared one.
type SearchQuery struct {
	Term            string  `json:"term"`
	BasePath        string  `json:"basePath"`
	Limit           int     `json:"limit"`
	FuzzyThreshold  float64 `json:"fuzzyThreshold"`
	SearchDepth     int     `json:"searchDepth"`
	IncludeInactive bool    `json:"includeInactive"`
}

// QueryOption configures a SearchQuery built by NewSearchQuery.
type QueryOption func(*SearchQuery)

// WithLimit sets the maximum number of results.
func WithLimit(n int) QueryOption {
	return func(q *SearchQuery) { q.Limit = n }
}

// WithFuzzyThreshold sets the acceptance threshold of the variant strategy.
func WithFuzzyThreshold(t float64) QueryOption {
	return func(q *SearchQuery) { q.FuzzyThreshold = t }
}

// WithSearchDepth sets how many levels below each candidate path are listed.
func WithSearchDepth(d int) QueryOption {
	return func(q *SearchQuery) { q.SearchDepth = d }
}

// WithInactive includes unpublished nodes in probes and listings.
func WithInactive(include bool) QueryOption {
	return func(q *SearchQuery) { q.IncludeInactive = include }
}

// NewSearchQuery returns a query for term under basePath with defaults
// applied before opts.
func NewSearchQuery(term, basePath string, opts ...QueryOption) SearchQuery {
	q := SearchQuery{
		Term:           term,
		BasePath:       basePath,
		Limit:          DefaultLimit,
		FuzzyThreshold: DefaultFuzzyThreshold,
		SearchDepth:    DefaultSearchDepth,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// Validate returns an EINVALID error if the query cannot be executed.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Term) == "" {
		return Errorf(EINVALID, "search term required")
	}
	if strings.TrimSpace(q.BasePath) == "" {
		return Errorf(EINVALID, "base path required")
	}
	if q.Limit < 0 {
		return Errorf(EINVALID, "limit must not be negative, got %d", q.Limit)
	}
	if q.SearchDepth < 0 {
		return Errorf(EINVALID, "search depth must not be negative, got %d", q.SearchDepth)
	}
	if q.FuzzyThreshold < 0 || q.FuzzyThreshold > 1 {
		return Errorf(EINVALID, "fuzzy threshold must be within [0,1], got %g", q.FuzzyThreshold)
	}
	return nil
}

// Normalized returns a copy with zero Limit and SearchDepth replaced by
// their defaults.
func (q SearchQuery) Normalized() SearchQuery {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SearchDepth == 0 {
		q.SearchDepth = DefaultSearchDepth
	}
	return q
}
