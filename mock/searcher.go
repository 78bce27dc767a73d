package mock

import (
	"context"

	"github.com/venky7799/aemsearch"
)

var _ aemsearch.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of aemsearch.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, q aemsearch.SearchQuery) (*aemsearch.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, q aemsearch.SearchQuery) (*aemsearch.SearchResult, error) {
	return s.SearchFn(ctx, q)
}
