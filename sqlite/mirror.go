package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/venky7799/aemsearch"
)

// Compile-time interface verification.
var _ aemsearch.MirrorRunService = (*MirrorRunService)(nil)

// MirrorRunService implements aemsearch.MirrorRunService using SQLite.
type MirrorRunService struct {
	db *DB
}

// NewMirrorRunService creates a new MirrorRunService.
func NewMirrorRunService(db *DB) *MirrorRunService {
	return &MirrorRunService{db: db}
}

// CreateMirrorRun stores run with a generated ID.
func (s *MirrorRunService) CreateMirrorRun(ctx context.Context, run *aemsearch.MirrorRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mirror_runs (id, root, visited, changed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.Visited, run.Changed,
		formatTime(run.StartedAt), formatTime(run.FinishedAt))

	return err
}

// FindMirrorRuns returns the most recent runs first.
func (s *MirrorRunService) FindMirrorRuns(ctx context.Context, limit int) ([]*aemsearch.MirrorRun, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, root, visited, changed, started_at, finished_at FROM mirror_runs")
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendLimit(&query, &args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*aemsearch.MirrorRun
	for rows.Next() {
		var run aemsearch.MirrorRun
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Root, &run.Visited, &run.Changed, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
