package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venky7799/aemsearch"
	main "github.com/venky7799/aemsearch/cmd/aemsearch"
	"github.com/venky7799/aemsearch/mirror"
	"github.com/venky7799/aemsearch/mock"
)

func siteTree() *mock.RepositoryClient {
	return mock.NewTree(
		&aemsearch.Node{Path: "/content/mysite/en", Name: "en", Active: true},
		&aemsearch.Node{Path: "/content/mysite/en/about-us", Name: "about-us", Title: "About Us", Active: true},
		&aemsearch.Node{Path: "/content/mysite/en/products", Name: "products", Title: "Products", Active: true},
		&aemsearch.Node{Path: "/content/mysite/de", Name: "de", Active: false},
	)
}

func TestMirrorCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("walks the root and records the run", func(t *testing.T) {
		t.Parallel()

		var saved []string
		store := &mock.NodeWriter{
			SaveNodesFn: func(_ context.Context, nodes []*aemsearch.Node) (int, error) {
				for _, n := range nodes {
					saved = append(saved, n.Path)
				}
				return len(nodes), nil
			},
		}

		var recorded *aemsearch.MirrorRun
		runs := &mock.MirrorRunService{
			CreateMirrorRunFn: func(_ context.Context, run *aemsearch.MirrorRun) error {
				run.ID = "run-1"
				recorded = run
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Walker: &mirror.Walker{Source: siteTree(), Store: store},
			Runs:   runs,
		}

		cmd := &main.MirrorCmd{Root: "/content/mysite/"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, []string{
			"/content/mysite/de",
			"/content/mysite/en",
			"/content/mysite/en/about-us",
			"/content/mysite/en/products",
		}, saved)
		require.NotNil(t, recorded)
		assert.Equal(t, "/content/mysite", recorded.Root)
		assert.Equal(t, 4, recorded.Visited)
		assert.Equal(t, 4, recorded.Changed)
		assert.False(t, recorded.FinishedAt.Before(recorded.StartedAt))
		assert.Contains(t, stdout.String(), "Mirrored /content/mysite: 4 nodes, 4 changed")
		assert.Empty(t, stderr.String())
	})

	t.Run("applies node and depth caps", func(t *testing.T) {
		t.Parallel()

		var recorded *aemsearch.MirrorRun
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Walker: &mirror.Walker{
				Source: siteTree(),
				Store: &mock.NodeWriter{
					SaveNodesFn: func(_ context.Context, nodes []*aemsearch.Node) (int, error) {
						return 0, nil
					},
				},
			},
			Runs: &mock.MirrorRunService{
				CreateMirrorRunFn: func(_ context.Context, run *aemsearch.MirrorRun) error {
					recorded = run
					return nil
				},
			},
		}

		cmd := &main.MirrorCmd{Root: "/content/mysite", MaxDepth: 1}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, recorded)
		assert.Equal(t, 2, recorded.Visited)
		assert.Equal(t, 0, recorded.Changed)
	})

	t.Run("warns about subtrees that could not be listed", func(t *testing.T) {
		t.Parallel()

		source := siteTree()
		list := source.ListChildrenFn
		source.ListChildrenFn = func(ctx context.Context, path string, depth int, includeInactive bool) ([]*aemsearch.Node, error) {
			if path == "/content/mysite/en" {
				return nil, &aemsearch.RepositoryError{Kind: aemsearch.RepoAccessDenied, Path: path}
			}
			return list(ctx, path, depth, includeInactive)
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Walker: &mirror.Walker{
				Source: source,
				Store: &mock.NodeWriter{
					SaveNodesFn: func(_ context.Context, nodes []*aemsearch.Node) (int, error) {
						return len(nodes), nil
					},
				},
			},
			Runs: &mock.MirrorRunService{
				CreateMirrorRunFn: func(_ context.Context, _ *aemsearch.MirrorRun) error { return nil },
			},
		}

		cmd := &main.MirrorCmd{Root: "/content/mysite"}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "warning: could not list /content/mysite/en\n", stderr.String())
	})

	t.Run("rejects the repository root", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.MirrorCmd{Root: "/"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, aemsearch.EINVALID, aemsearch.ErrorCode(err))
		assert.Contains(t, stderr.String(), "mirror root must be below /")
	})

	t.Run("does not record a run when the root cannot be listed", func(t *testing.T) {
		t.Parallel()

		source := siteTree()
		source.ListChildrenFn = func(_ context.Context, path string, _ int, _ bool) ([]*aemsearch.Node, error) {
			return nil, &aemsearch.RepositoryError{Kind: aemsearch.RepoNotFound, Path: path}
		}

		created := false
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Walker: &mirror.Walker{Source: source, Store: &mock.NodeWriter{}},
			Runs: &mock.MirrorRunService{
				CreateMirrorRunFn: func(_ context.Context, _ *aemsearch.MirrorRun) error {
					created = true
					return nil
				},
			},
		}

		cmd := &main.MirrorCmd{Root: "/content/gone"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, aemsearch.ENOTFOUND, aemsearch.ErrorCode(err))
		assert.False(t, created)
		assert.Contains(t, stderr.String(), "error: ")
	})

	t.Run("returns error when the run cannot be recorded", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("disk full")
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Walker: &mirror.Walker{
				Source: siteTree(),
				Store: &mock.NodeWriter{
					SaveNodesFn: func(_ context.Context, nodes []*aemsearch.Node) (int, error) {
						return len(nodes), nil
					},
				},
			},
			Runs: &mock.MirrorRunService{
				CreateMirrorRunFn: func(_ context.Context, _ *aemsearch.MirrorRun) error { return dbErr },
			},
		}

		cmd := &main.MirrorCmd{Root: "/content/mysite"}
		err := cmd.Run(deps)

		require.ErrorIs(t, err, dbErr)
		assert.Equal(t, "error: Internal error.\n", stderr.String())
	})
}
