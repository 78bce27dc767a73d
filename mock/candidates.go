package mock

import (
	"context"

	"github.com/venky7799/aemsearch"
)

var _ aemsearch.CandidateGenerator = (*CandidateGenerator)(nil)

// CandidateGenerator is a mock implementation of aemsearch.CandidateGenerator.
type CandidateGenerator struct {
	CandidatesFn func(ctx context.Context, basePath string, opts aemsearch.CandidateOptions) ([]aemsearch.PathCandidate, error)
}

func (g *CandidateGenerator) Candidates(ctx context.Context, basePath string, opts aemsearch.CandidateOptions) ([]aemsearch.PathCandidate, error) {
	return g.CandidatesFn(ctx, basePath, opts)
}
