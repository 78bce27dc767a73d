package search

import (
	"slices"

	"github.com/venky7799/aemsearch"
)

// reportBuilder accumulates a SearchReport during one orchestration run.
// It is only touched from the committing goroutine.
type reportBuilder struct {
	strategies []aemsearch.Strategy
	paths      []string
	seen       map[string]bool
	attempts   int
	successes  int
	failures   []aemsearch.PathFailure
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{seen: make(map[string]bool)}
}

func (b *reportBuilder) useStrategy(s aemsearch.Strategy) {
	if !slices.Contains(b.strategies, s) {
		b.strategies = append(b.strategies, s)
	}
}

func (b *reportBuilder) explored(path string) {
	b.attempts++
	b.successes++
	if !b.seen[path] {
		b.seen[path] = true
		b.paths = append(b.paths, path)
	}
}

func (b *reportBuilder) failed(path string, s aemsearch.Strategy, err error) {
	b.attempts++
	b.failures = append(b.failures, aemsearch.PathFailure{
		Path:     path,
		Strategy: s,
		Message:  err.Error(),
		Err:      err,
	})
}

// build returns an independent report for matches, which must be sorted.
func (b *reportBuilder) build(matches []*aemsearch.MatchCandidate, limit int) *aemsearch.SearchReport {
	return &aemsearch.SearchReport{
		StrategiesUsed: slices.Clone(b.strategies),
		PathsExplored:  slices.Clone(b.paths),
		TotalAttempts:  b.attempts,
		Confidence:     aemsearch.Confidence(matches, limit),
		Coverage:       aemsearch.CoverageOf(b.strategies),
		Failures:       slices.Clone(b.failures),
	}
}

// mergeReports combines the report of a first pass with that of its retry.
// Confidence comes from the retry, whose matches are the ones returned.
func mergeReports(first, retry *aemsearch.SearchReport) *aemsearch.SearchReport {
	merged := &aemsearch.SearchReport{
		StrategiesUsed: slices.Clone(first.StrategiesUsed),
		PathsExplored:  slices.Clone(first.PathsExplored),
		TotalAttempts:  first.TotalAttempts + retry.TotalAttempts,
		Confidence:     retry.Confidence,
		Failures:       append(slices.Clone(first.Failures), retry.Failures...),
		Retried:        true,
	}
	for _, s := range retry.StrategiesUsed {
		if !slices.Contains(merged.StrategiesUsed, s) {
			merged.StrategiesUsed = append(merged.StrategiesUsed, s)
		}
	}
	for _, p := range retry.PathsExplored {
		if !slices.Contains(merged.PathsExplored, p) {
			merged.PathsExplored = append(merged.PathsExplored, p)
		}
	}
	merged.Coverage = aemsearch.CoverageOf(merged.StrategiesUsed)
	return merged
}
