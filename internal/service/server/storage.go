package server

import (
	"context"
	"fmt"

	"github.com/oshokin/catpoint/internal/config"
	repo "github.com/oshokin/catpoint/internal/repository/security"
)

// openRepository builds the repository selected by the storage settings.
// The returned function releases its resources.
func openRepository(ctx context.Context, storage config.Storage) (repo.Repository, func() error, error) {
	noop := func() error { return nil }

	switch storage.Driver {
	case config.StorageMemory:
		return repo.NewMemoryRepository(nil), noop, nil
	case config.StorageFile:
		return repo.NewFileRepository(storage.Path), noop, nil
	case config.StorageSQLite:
		db, err := repo.OpenSQLite(storage.Path)
		if err != nil {
			return nil, nil, err
		}

		repository, err := repo.NewSQLRepository(ctx, db)
		if err != nil {
			return nil, nil, err
		}

		return repository, repository.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", storage.Driver)
	}
}
