package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/venky7799/aemsearch"
)

// Ensure LoggingCandidateGenerator implements aemsearch.CandidateGenerator.
var _ aemsearch.CandidateGenerator = (*LoggingCandidateGenerator)(nil)

// LoggingCandidateGenerator wraps a CandidateGenerator with logging.
type LoggingCandidateGenerator struct {
	next   aemsearch.CandidateGenerator
	logger *slog.Logger
}

// NewLoggingCandidateGenerator creates a new LoggingCandidateGenerator.
func NewLoggingCandidateGenerator(next aemsearch.CandidateGenerator, logger *slog.Logger) *LoggingCandidateGenerator {
	return &LoggingCandidateGenerator{next: next, logger: logger}
}

// Candidates delegates to the wrapped generator and logs the result.
func (g *LoggingCandidateGenerator) Candidates(ctx context.Context, basePath string, opts aemsearch.CandidateOptions) (cs []aemsearch.PathCandidate, err error) {
	defer func(begin time.Time) {
		g.logger.Info("path candidates",
			"base", basePath,
			"count", len(cs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Candidates(ctx, basePath, opts)
}
