package mock

import (
	"context"

	"github.com/venky7799/aemsearch"
)

var _ aemsearch.MirrorRunService = (*MirrorRunService)(nil)

// MirrorRunService is a mock implementation of aemsearch.MirrorRunService.
type MirrorRunService struct {
	CreateMirrorRunFn func(ctx context.Context, run *aemsearch.MirrorRun) error
	FindMirrorRunsFn  func(ctx context.Context, limit int) ([]*aemsearch.MirrorRun, error)
}

func (s *MirrorRunService) CreateMirrorRun(ctx context.Context, run *aemsearch.MirrorRun) error {
	return s.CreateMirrorRunFn(ctx, run)
}

func (s *MirrorRunService) FindMirrorRuns(ctx context.Context, limit int) ([]*aemsearch.MirrorRun, error) {
	return s.FindMirrorRunsFn(ctx, limit)
}
