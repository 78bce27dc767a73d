package mock

import (
	"context"

	"github.com/venky7799/aemsearch"
)

var (
	_ aemsearch.RepositoryClient = (*RepositoryClient)(nil)
	_ aemsearch.LocaleLister     = (*RepositoryClient)(nil)
)

// RepositoryClient is a mock implementation of aemsearch.RepositoryClient
// and aemsearch.LocaleLister.
type RepositoryClient struct {
	ExistsFn       func(ctx context.Context, path string, includeInactive bool) (bool, error)
	ListChildrenFn func(ctx context.Context, path string, depth int, includeInactive bool) ([]*aemsearch.Node, error)

	// LocalesFn is optional; when nil Locales reports ENOTIMPLEMENTED.
	LocalesFn func(ctx context.Context, path string) ([]string, error)
}

func (c *RepositoryClient) Exists(ctx context.Context, path string, includeInactive bool) (bool, error) {
	return c.ExistsFn(ctx, path, includeInactive)
}

func (c *RepositoryClient) ListChildren(ctx context.Context, path string, depth int, includeInactive bool) ([]*aemsearch.Node, error) {
	return c.ListChildrenFn(ctx, path, depth, includeInactive)
}

func (c *RepositoryClient) Locales(ctx context.Context, path string) ([]string, error) {
	if c.LocalesFn == nil {
		return nil, aemsearch.Errorf(aemsearch.ENOTIMPLEMENTED, "locale listing not supported")
	}
	return c.LocalesFn(ctx, path)
}
