package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// StateFilePermissions restricts the state file to its owner.
const StateFilePermissions = 0o600

// FileRepository persists the snapshot to a JSON file on disk.
// The whole file is rewritten on every mutation.
type FileRepository struct {
	snapshotRepository

	// path is the filesystem location of the JSON state file.
	path string
}

// fileStorage reads and writes the snapshot file.
type fileStorage struct {
	path string
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	cleaned := filepath.Clean(path)

	return &FileRepository{
		snapshotRepository: snapshotRepository{
			storage: &fileStorage{path: cleaned},
		},
		path: cleaned,
	}
}

// Path returns the location of the state file.
func (r *FileRepository) Path() string {
	return r.path
}

// load reads the snapshot from disk.
func (f *fileStorage) load(_ context.Context) (*domain.Snapshot, error) {
	contents, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	snapshot := domain.NewSnapshot()
	if err = json.Unmarshal(contents, snapshot); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	if snapshot.Sensors == nil {
		snapshot.Sensors = make([]*domain.Sensor, 0)
	}

	return snapshot, nil
}

// save writes the snapshot to a temporary file and renames it into place.
func (f *fileStorage) save(_ context.Context, snapshot *domain.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, StateFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
