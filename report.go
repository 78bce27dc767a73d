package aemsearch

import (
	"context"
	"fmt"
	"slices"
)

// Coverage is a qualitative indicator of how much of the site was searched.
type Coverage int

const (
	CoverageMinimal Coverage = iota
	CoveragePartial
	CoverageComprehensive
)

func (c Coverage) String() string {
	switch c {
	case CoveragePartial:
		return "Partial"
	case CoverageComprehensive:
		return "Comprehensive"
	default:
		return "Minimal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Coverage) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CoverageOf derives coverage from the strategies that ran.
func CoverageOf(strategies []Strategy) Coverage {
	switch {
	case slices.Contains(strategies, StrategyCrossSection):
		return CoverageComprehensive
	case slices.Contains(strategies, StrategyEnhanced), slices.Contains(strategies, StrategyFuzzy):
		return CoveragePartial
	default:
		return CoverageMinimal
	}
}

// PathFailure records a repository listing that failed during a search.
type PathFailure struct {
	Path     string   `json:"path"`
	Strategy Strategy `json:"strategy"`
	Message  string   `json:"error"`
	Err      error    `json:"-"`
}

// SearchReport describes what a search tried. It is returned with every
// result, including empty ones.
type SearchReport struct {
	StrategiesUsed []Strategy    `json:"strategiesUsed"`
	PathsExplored  []string      `json:"pathsExplored"`
	TotalAttempts  int           `json:"totalAttempts"`
	Confidence     float64       `json:"confidence"`
	Coverage       Coverage      `json:"coverage"`
	Failures       []PathFailure `json:"failures,omitempty"`

	// Retried is set when the low-confidence retry pass ran.
	Retried bool `json:"retried"`
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Matches []*MatchCandidate `json:"matches"`
	Report  *SearchReport     `json:"report"`
}

// Searcher finds content nodes matching a query.
type Searcher interface {
	// Search runs the strategy chain for q. It returns EINVALID for a
	// malformed query and an *ExhaustedError if every repository call
	// failed. Cancellation returns ctx.Err() and no result.
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

// ExhaustedError is returned when every repository listing of a search
// failed. Report describes the attempts.
type ExhaustedError struct {
	Failures []PathFailure
	Report   *SearchReport
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return "search exhausted: no repository call succeeded"
	}
	return fmt.Sprintf("search exhausted: all %d repository calls failed, last: %s: %s",
		len(e.Failures), e.Failures[len(e.Failures)-1].Path, e.Failures[len(e.Failures)-1].Message)
}
