package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitesnap"
)

// Ensure Store implements sitesnap.SnapshotStore at compile time.
var _ sitesnap.SnapshotStore = (*Store)(nil)

// Store implements sitesnap.SnapshotStore with atomic update semantics.
// Snapshots are saved to a temporary directory, then moved atomically on
// Commit, so a partially-written archive never replaces a previous one.
type Store struct {
	baseDir string
	name    string
	layout  Layout
}

// NewStore creates a new Store.
// baseDir is the parent directory, name is the archive directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewStore(baseDir, name string, layout Layout) *Store {
	return &Store{
		baseDir: baseDir,
		name:    name,
		layout:  layout,
	}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Dir returns the directory snapshots will occupy after Commit.
func (s *Store) Dir() string {
	return s.finalDir()
}

// Path returns the relative path a snapshot of url maps to under the
// store's layout.
func (s *Store) Path(url string) (string, error) {
	return SnapshotPath(url, s.layout)
}

// Save writes one snapshot under the temporary directory.
func (s *Store) Save(ctx context.Context, snap *sitesnap.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	relPath, err := SnapshotPath(snap.URL, s.layout)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return sitesnap.Errorf(sitesnap.EIO, "creating snapshot directory: %v", err)
	}

	if err := os.WriteFile(fullPath, []byte(snap.HTML), 0644); err != nil {
		return sitesnap.Errorf(sitesnap.EIO, "writing snapshot: %v", err)
	}

	return nil
}

// Commit atomically replaces any previous archive with the pending one.
func (s *Store) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return sitesnap.Errorf(sitesnap.EIO, "removing previous archive: %v", err)
	}

	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return sitesnap.Errorf(sitesnap.EIO, "committing archive: %v", err)
	}

	return nil
}

// Abort discards pending snapshots.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}
