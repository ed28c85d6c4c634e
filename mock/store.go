package mock

import (
	"context"

	"github.com/fwojciec/sitesnap"
)

var _ sitesnap.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of sitesnap.SnapshotStore.
type SnapshotStore struct {
	SaveFn   func(ctx context.Context, snap *sitesnap.Snapshot) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *SnapshotStore) Save(ctx context.Context, snap *sitesnap.Snapshot) error {
	return s.SaveFn(ctx, snap)
}

func (s *SnapshotStore) Commit() error {
	if s.CommitFn == nil {
		return nil
	}
	return s.CommitFn()
}

func (s *SnapshotStore) Abort() error {
	if s.AbortFn == nil {
		return nil
	}
	return s.AbortFn()
}
