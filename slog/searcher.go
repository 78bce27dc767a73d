package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/venky7799/aemsearch"
)

// Ensure LoggingSearcher implements aemsearch.Searcher.
var _ aemsearch.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging. Each search is tagged with
// a run id so the lines of concurrent searches can be told apart.
type LoggingSearcher struct {
	next   aemsearch.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next aemsearch.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the outcome.
func (s *LoggingSearcher) Search(ctx context.Context, q aemsearch.SearchQuery) (res *aemsearch.SearchResult, err error) {
	logger := s.logger.With("run", uuid.New().String())
	logger.Info("search started",
		"term", q.Term,
		"base", q.BasePath,
		"limit", q.Limit,
		"threshold", q.FuzzyThreshold,
		"depth", q.SearchDepth,
	)

	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if res != nil {
			attrs = append(attrs,
				"matches", len(res.Matches),
				"strategies", res.Report.StrategiesUsed,
				"attempts", res.Report.TotalAttempts,
				"failures", len(res.Report.Failures),
				"confidence", res.Report.Confidence,
				"coverage", res.Report.Coverage,
				"retried", res.Report.Retried,
			)
		}
		logger.Info("search finished", attrs...)
	}(time.Now())
	return s.next.Search(ctx, q)
}
