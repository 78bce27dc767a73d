package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venky7799/aemsearch"
	main "github.com/venky7799/aemsearch/cmd/aemsearch"
	"github.com/venky7799/aemsearch/mock"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with ID, root and counts", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		runs := &mock.MirrorRunService{
			FindMirrorRunsFn: func(_ context.Context, limit int) ([]*aemsearch.MirrorRun, error) {
				gotLimit = limit
				return []*aemsearch.MirrorRun{
					{
						ID:        "run-2",
						Root:      "/content/mysite",
						Visited:   120,
						Changed:   3,
						StartedAt: time.Date(2025, 1, 16, 11, 0, 0, 0, time.UTC),
					},
					{
						ID:        "run-1",
						Root:      "/content/mysite",
						Visited:   118,
						Changed:   118,
						StartedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.RunsCmd{Limit: 5}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, 5, gotLimit)
		output := stdout.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "run-1")
		assert.Contains(t, output, "/content/mysite")
		assert.Contains(t, output, "120 nodes")
		assert.Contains(t, output, "118 changed")
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.MirrorRunService{
			FindMirrorRunsFn: func(_ context.Context, _ int) ([]*aemsearch.MirrorRun, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.RunsCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No mirror runs")
	})

	t.Run("returns error when FindMirrorRuns fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		runs := &mock.MirrorRunService{
			FindMirrorRunsFn: func(_ context.Context, _ int) ([]*aemsearch.MirrorRun, error) {
				return nil, dbErr
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs:   runs,
		}

		cmd := &main.RunsCmd{}
		err := cmd.Run(deps)

		require.ErrorIs(t, err, dbErr)
		assert.Contains(t, stderr.String(), "error:")
	})
}
