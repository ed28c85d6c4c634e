package mock

import (
	"context"

	"github.com/fwojciec/sitesnap"
)

var _ sitesnap.ManifestService = (*ManifestService)(nil)

// ManifestService is a mock implementation of sitesnap.ManifestService.
type ManifestService struct {
	CreateRunFn            func(ctx context.Context, run *sitesnap.Run) error
	FinishRunFn            func(ctx context.Context, run *sitesnap.Run) error
	CreateSnapshotRecordFn func(ctx context.Context, rec *sitesnap.SnapshotRecord) error
	FindSnapshotRecordsFn  func(ctx context.Context, runID string) ([]*sitesnap.SnapshotRecord, error)
}

func (m *ManifestService) CreateRun(ctx context.Context, run *sitesnap.Run) error {
	return m.CreateRunFn(ctx, run)
}

func (m *ManifestService) FinishRun(ctx context.Context, run *sitesnap.Run) error {
	return m.FinishRunFn(ctx, run)
}

func (m *ManifestService) CreateSnapshotRecord(ctx context.Context, rec *sitesnap.SnapshotRecord) error {
	return m.CreateSnapshotRecordFn(ctx, rec)
}

func (m *ManifestService) FindSnapshotRecords(ctx context.Context, runID string) ([]*sitesnap.SnapshotRecord, error) {
	return m.FindSnapshotRecordsFn(ctx, runID)
}
