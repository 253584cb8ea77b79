package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/catpoint/internal/config"
)

// TestResolveListenAddress covers override, port extraction and errors.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("alarm.local:50051", "")
	require.NoError(t, err)
	require.Equal(t, ":50051", addr)

	addr, err = resolveListenAddress("alarm.local:50051", "127.0.0.1:9090")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestOpenRepository builds every supported backend.
func TestOpenRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	cases := map[string]config.Storage{
		"memory": {Driver: config.StorageMemory},
		"file":   {Driver: config.StorageFile, Path: filepath.Join(dir, "state.json")},
		"sqlite": {Driver: config.StorageSQLite, Path: filepath.Join(dir, "catpoint.db")},
	}

	for name, storage := range cases {
		repository, closeFn, err := openRepository(ctx, storage)
		require.NoError(t, err, name)

		_, err = repository.Sensors(ctx)
		require.NoError(t, err, name)
		require.NoError(t, closeFn(), name)
	}

	_, _, err := openRepository(ctx, config.Storage{Driver: "etcd"})
	require.Error(t, err)
}
