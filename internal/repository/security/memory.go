package security

import (
	"context"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// MemoryRepository keeps the snapshot in process memory.
type MemoryRepository struct {
	snapshotRepository
}

// memoryStorage stores a private copy of the snapshot.
type memoryStorage struct {
	snapshot *domain.Snapshot
}

// NewMemoryRepository creates a repository seeded with the provided snapshot.
// A nil snapshot starts from the initial state.
func NewMemoryRepository(initial *domain.Snapshot) *MemoryRepository {
	if initial == nil {
		initial = domain.NewSnapshot()
	}

	return &MemoryRepository{
		snapshotRepository: snapshotRepository{
			storage: &memoryStorage{snapshot: initial.Clone()},
		},
	}
}

func (m *memoryStorage) load(context.Context) (*domain.Snapshot, error) {
	return m.snapshot.Clone(), nil
}

func (m *memoryStorage) save(_ context.Context, snapshot *domain.Snapshot) error {
	m.snapshot = snapshot.Clone()

	return nil
}
