package aemsearch

import (
	"sort"
	"time"
)

// Strategy is a named search pass with a fixed comparison mode and
// acceptance threshold.
type Strategy int

// Strategies in execution order.
const (
	StrategyExact Strategy = iota
	StrategyEnhanced
	StrategyFuzzy
	StrategyCrossSection
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "Exact"
	case StrategyEnhanced:
		return "Enhanced"
	case StrategyFuzzy:
		return "Fuzzy"
	case StrategyCrossSection:
		return "CrossSection"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MatchCandidate is a repository node scored against a search term.
type MatchCandidate struct {
	NodePath     string    `json:"nodePath"`
	Title        string    `json:"title"`
	LastModified time.Time `json:"lastModified,omitzero"`

	// Score is the best similarity over every (variant, title field) pair
	// tried for the node.
	Score          float64     `json:"score"`
	MatchedVariant TermVariant `json:"matchedVariant"`
	Strategy       Strategy    `json:"strategy"`
}

// SortMatches orders matches by descending score, then shallower path
// depth, then lexical path.
func SortMatches(ms []*MatchCandidate) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		da, db := PathDepth(a.NodePath), PathDepth(b.NodePath)
		if da != db {
			return da < db
		}
		return a.NodePath < b.NodePath
	})
}

// Confidence returns the mean score of the top min(limit, len(ms)) matches.
// ms must already be sorted. It returns 0 for an empty set.
func Confidence(ms []*MatchCandidate, limit int) float64 {
	n := min(limit, len(ms))
	if n <= 0 {
		return 0
	}
	var sum float64
	for _, m := range ms[:n] {
		sum += m.Score
	}
	return sum / float64(n)
}
