package search

import (
	"path"

	"github.com/venky7799/aemsearch"
	"github.com/venky7799/aemsearch/fuzzy"
	"github.com/venky7799/aemsearch/term"
)

// Validator re-checks matches against the original term, independent of
// the strategy that accepted them.
type Validator struct {
	Config aemsearch.SearchConfig
}

// NewValidator returns a Validator using cfg.
func NewValidator(cfg aemsearch.SearchConfig) *Validator {
	return &Validator{Config: cfg}
}

// Validate drops matches whose title scores below the query threshold
// scaled by the validation factor and returns the survivors sorted.
// The input slice is not modified.
func (v *Validator) Validate(matches []*aemsearch.MatchCandidate, q aemsearch.SearchQuery) []*aemsearch.MatchCandidate {
	original := term.Variants(q.Term)[0].Text
	floor := q.FuzzyThreshold * v.Config.ValidationFactor

	out := make([]*aemsearch.MatchCandidate, 0, len(matches))
	for _, m := range matches {
		label := m.Title
		if label == "" {
			label = path.Base(m.NodePath)
		}
		if fuzzy.Score(label, original) < floor {
			continue
		}
		out = append(out, m)
	}
	aemsearch.SortMatches(out)
	return out
}

// shouldRetry reports whether an empty validated result for q warrants the
// single relaxed retry pass.
func (v *Validator) shouldRetry(q aemsearch.SearchQuery) bool {
	return q.FuzzyThreshold > v.Config.RetryFloor
}

// relax returns q with the threshold lowered by one retry step, clamped to
// the retry floor, and one more level of depth.
func (v *Validator) relax(q aemsearch.SearchQuery) aemsearch.SearchQuery {
	q.FuzzyThreshold = max(q.FuzzyThreshold-v.Config.RetryStep, v.Config.RetryFloor)
	q.SearchDepth++
	return q
}
