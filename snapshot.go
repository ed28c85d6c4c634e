package sitesnap

import (
	"context"
	"time"
)

// Snapshot represents one captured page ready to be persisted.
type Snapshot struct {
	// URL is the fully-qualified page URL the snapshot was captured from.
	URL string

	// HTML is the self-contained serialized document.
	HTML string

	// ContentHash is the xxHash of HTML, hex-encoded.
	ContentHash string

	// Position is the page's index in the deduplicated discovery order.
	Position int

	// CapturedAt is when the capture completed.
	CapturedAt time.Time
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "snapshot URL required")
	}
	if s.HTML == "" {
		return Errorf(EINVALID, "snapshot HTML required")
	}
	return nil
}

// SnapshotStore persists snapshots to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Commit() error
	Abort() error
}
