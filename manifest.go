package sitesnap

import (
	"context"
	"time"
)

// Snapshot record statuses recorded in the run manifest.
const (
	StatusCaptured = "captured"
	StatusFailed   = "failed"
)

// Run represents one archiving run recorded in the manifest.
type Run struct {
	ID         string    `json:"id"`
	SiteURL    string    `json:"siteUrl"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SiteURL == "" {
		return Errorf(EINVALID, "run site URL required")
	}
	return nil
}

// SnapshotRecord represents one page outcome recorded in the manifest.
// Exactly one of a capture (StatusCaptured, with FilePath and ContentHash)
// or a failure (StatusFailed, with Error) is recorded per page.
type SnapshotRecord struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	FilePath    string    `json:"filePath"`
	ContentHash string    `json:"contentHash"`
	Status      string    `json:"status"`
	Error       string    `json:"error"`
	Position    int       `json:"position"`
	CapturedAt  time.Time `json:"capturedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *SnapshotRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "record run ID required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Status != StatusCaptured && r.Status != StatusFailed {
		return Errorf(EINVALID, "record status must be %q or %q", StatusCaptured, StatusFailed)
	}
	return nil
}

// ManifestService records run and per-page outcomes.
// The manifest is an output artifact of a single run; it is never read back
// to influence later runs.
type ManifestService interface {
	// CreateRun records the start of a run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun records the run's end time and final counts.
	FinishRun(ctx context.Context, run *Run) error

	// CreateSnapshotRecord records one page outcome and assigns its ID.
	CreateSnapshotRecord(ctx context.Context, rec *SnapshotRecord) error

	// FindSnapshotRecords retrieves all records for a run in position order.
	FindSnapshotRecords(ctx context.Context, runID string) ([]*SnapshotRecord, error)
}
