package search

import (
	"github.com/venky7799/aemsearch"
)

// compareMode selects how a node is scored against the term.
type compareMode int

const (
	// compareOriginal scores against the Original variant only.
	compareOriginal compareMode = iota
	// compareVariants scores against every variant.
	compareVariants
	// compareFuzzy adds partial containment to compareVariants.
	compareFuzzy
)

// strategy describes one pass of the chain. The orchestration loop only
// iterates the table, so passes can be added or reordered here.
type strategy struct {
	kind aemsearch.Strategy
	mode compareMode

	// accepts reports whether the pass lists a candidate.
	accepts func(c aemsearch.PathCandidate) bool

	// threshold returns the acceptance threshold for q.
	threshold func(q aemsearch.SearchQuery, cfg aemsearch.SearchConfig) float64

	// runs reports whether the pass is worth running given how many
	// matches are already accepted.
	runs func(q aemsearch.SearchQuery, accepted int) bool
}

func asGiven(c aemsearch.PathCandidate) bool {
	return c.Source == aemsearch.SourceAsGiven
}

func crossSection(c aemsearch.PathCandidate) bool {
	return c.Source != aemsearch.SourceAsGiven
}

func always(aemsearch.SearchQuery, int) bool { return true }

func exactThreshold(_ aemsearch.SearchQuery, cfg aemsearch.SearchConfig) float64 {
	return cfg.ExactThreshold
}

func queryThreshold(q aemsearch.SearchQuery, _ aemsearch.SearchConfig) float64 {
	return q.FuzzyThreshold
}

// relaxedThreshold lowers the query threshold by the fuzzy margin, not
// below the floor and never above the query threshold itself.
func relaxedThreshold(q aemsearch.SearchQuery, cfg aemsearch.SearchConfig) float64 {
	return min(q.FuzzyThreshold, max(q.FuzzyThreshold-cfg.FuzzyMargin, cfg.FuzzyFloor))
}

// strategies is the fixed chain in execution order. The cross-section pass
// combines the exact, variant and fuzzy comparisons; since each accepts a
// superset of the one before, that is the fuzzy comparison at the relaxed
// threshold.
var strategies = []strategy{
	{
		kind:      aemsearch.StrategyExact,
		mode:      compareOriginal,
		accepts:   asGiven,
		threshold: exactThreshold,
		runs:      always,
	},
	{
		kind:      aemsearch.StrategyEnhanced,
		mode:      compareVariants,
		accepts:   asGiven,
		threshold: queryThreshold,
		runs:      always,
	},
	{
		kind:      aemsearch.StrategyFuzzy,
		mode:      compareFuzzy,
		accepts:   asGiven,
		threshold: relaxedThreshold,
		runs:      always,
	},
	{
		kind:      aemsearch.StrategyCrossSection,
		mode:      compareFuzzy,
		accepts:   crossSection,
		threshold: relaxedThreshold,
		runs: func(q aemsearch.SearchQuery, accepted int) bool {
			return accepted < q.Limit
		},
	},
}
