// Package slog provides logging decorators for the repository, candidate
// and search services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/venky7799/aemsearch"
)

// Ensure LoggingRepositoryClient implements the repository interfaces.
var (
	_ aemsearch.RepositoryClient = (*LoggingRepositoryClient)(nil)
	_ aemsearch.LocaleLister     = (*LoggingRepositoryClient)(nil)
)

// LoggingRepositoryClient wraps a RepositoryClient with logging. It always
// offers Locales and reports ENOTIMPLEMENTED when the wrapped client cannot
// list locales.
type LoggingRepositoryClient struct {
	next   aemsearch.RepositoryClient
	logger *slog.Logger
}

// NewLoggingRepositoryClient creates a new LoggingRepositoryClient.
func NewLoggingRepositoryClient(next aemsearch.RepositoryClient, logger *slog.Logger) *LoggingRepositoryClient {
	return &LoggingRepositoryClient{next: next, logger: logger}
}

// Exists delegates to the wrapped client and logs the probe.
func (c *LoggingRepositoryClient) Exists(ctx context.Context, path string, includeInactive bool) (ok bool, err error) {
	defer func(begin time.Time) {
		c.logger.Info("exists",
			"path", path,
			"inactive", includeInactive,
			"exists", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Exists(ctx, path, includeInactive)
}

// ListChildren delegates to the wrapped client and logs the listing.
func (c *LoggingRepositoryClient) ListChildren(ctx context.Context, path string, depth int, includeInactive bool) (nodes []*aemsearch.Node, err error) {
	defer func(begin time.Time) {
		c.logger.Info("list children",
			"path", path,
			"depth", depth,
			"inactive", includeInactive,
			"count", len(nodes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ListChildren(ctx, path, depth, includeInactive)
}

// Locales delegates to the wrapped client if it is a LocaleLister.
func (c *LoggingRepositoryClient) Locales(ctx context.Context, path string) (locales []string, err error) {
	lister, ok := c.next.(aemsearch.LocaleLister)
	if !ok {
		return nil, aemsearch.Errorf(aemsearch.ENOTIMPLEMENTED, "locale listing not supported")
	}

	defer func(begin time.Time) {
		c.logger.Info("locales",
			"path", path,
			"locales", locales,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return lister.Locales(ctx, path)
}
