package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/sitesnap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitesnap.ManifestService = (*ManifestService)(nil)

// ManifestService implements sitesnap.ManifestService using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// CreateRun records the start of a run and assigns its ID.
func (s *ManifestService) CreateRun(ctx context.Context, run *sitesnap.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, site_url, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.SiteURL, run.StartedAt.Format(time.RFC3339))

	return err
}

// FinishRun records the run's end time and final counts.
func (s *ManifestService) FinishRun(ctx context.Context, run *sitesnap.Run) error {
	if run.ID == "" {
		return sitesnap.Errorf(sitesnap.EINVALID, "run ID required")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, attempted = ?, succeeded = ?, failed = ?
		WHERE id = ?
	`, run.FinishedAt.Format(time.RFC3339), run.Attempted, run.Succeeded, run.Failed, run.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sitesnap.Errorf(sitesnap.ENOTFOUND, "run not found")
	}

	return nil
}

// CreateSnapshotRecord records one page outcome and assigns its ID.
func (s *ManifestService) CreateSnapshotRecord(ctx context.Context, rec *sitesnap.SnapshotRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	if rec.CapturedAt.IsZero() {
		rec.CapturedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, run_id, url, file_path, content_hash, status, error, position, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.URL, rec.FilePath, rec.ContentHash, rec.Status, rec.Error,
		rec.Position, rec.CapturedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotRecords retrieves all records for a run in position order.
func (s *ManifestService) FindSnapshotRecords(ctx context.Context, runID string) ([]*sitesnap.SnapshotRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, url, file_path, content_hash, status, error, position, captured_at
		FROM snapshots
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*sitesnap.SnapshotRecord
	for rows.Next() {
		var rec sitesnap.SnapshotRecord
		var capturedAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.URL, &rec.FilePath, &rec.ContentHash,
			&rec.Status, &rec.Error, &rec.Position, &capturedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, capturedAt); err == nil {
			rec.CapturedAt = t
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
