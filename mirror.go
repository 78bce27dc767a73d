package aemsearch

import (
	"context"
	"strings"
	"time"
)

// MirrorRun records one copy of a live repository subtree into an offline
// mirror.
type MirrorRun struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Visited    int       `json:"visited"`
	Changed    int       `json:"changed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run is missing required fields.
func (r *MirrorRun) Validate() error {
	if strings.TrimSpace(r.Root) == "" {
		return Errorf(EINVALID, "mirror run root required")
	}
	if r.Visited < 0 || r.Changed < 0 {
		return Errorf(EINVALID, "mirror run counts must not be negative")
	}
	return nil
}

// MirrorRunService persists the history of mirror runs.
type MirrorRunService interface {
	// CreateMirrorRun stores run, assigning its ID.
	CreateMirrorRun(ctx context.Context, run *MirrorRun) error

	// FindMirrorRuns returns the most recent runs first. A non-positive
	// limit returns all runs.
	FindMirrorRuns(ctx context.Context, limit int) ([]*MirrorRun, error)
}
