package security

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// newRepositories builds one fresh instance of every backend.
func newRepositories(t *testing.T) map[string]Repository {
	t.Helper()

	db, err := OpenSQLite(fmt.Sprintf("file:catpoint-test-%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)

	sqlRepo, err := NewSQLRepository(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlRepo.Close()
	})

	return map[string]Repository{
		"memory": NewMemoryRepository(nil),
		"file":   NewFileRepository(filepath.Join(t.TempDir(), "state.json")),
		"sql":    sqlRepo,
	}
}

// TestRepository_Defaults verifies an empty store reports the initial state.
func TestRepository_Defaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, repo := range newRepositories(t) {
		arming, err := repo.ArmingStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.Disarmed, arming, name)

		alarm, err := repo.AlarmStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.NoAlarm, alarm, name)

		sensors, err := repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Empty(t, sensors, name)
	}
}

// TestRepository_Statuses checks that both statuses are stored independently.
func TestRepository_Statuses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, repo := range newRepositories(t) {
		require.NoError(t, repo.SetArmingStatus(ctx, domain.ArmedAway), name)
		require.NoError(t, repo.SetAlarmStatus(ctx, domain.PendingAlarm), name)
		require.NoError(t, repo.SetAlarmStatus(ctx, domain.Alarm), name)

		arming, err := repo.ArmingStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.ArmedAway, arming, name)

		alarm, err := repo.AlarmStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.Alarm, alarm, name)
	}
}

// TestRepository_SensorLifecycle exercises add, update, list and remove.
func TestRepository_SensorLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, repo := range newRepositories(t) {
		window := &domain.Sensor{ID: "w1", Name: "Kitchen window", Type: domain.Window}
		door := &domain.Sensor{ID: "d1", Name: "Front door", Type: domain.Door}

		require.NoError(t, repo.AddSensor(ctx, window), name)
		require.NoError(t, repo.AddSensor(ctx, door), name)
		require.ErrorIs(t, repo.AddSensor(ctx, door), ErrSensorExists, name)

		sensors, err := repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Equal(t, []*domain.Sensor{door, window}, sensors, name)

		// Returned sensors are copies.
		sensors[0].Active = true

		stored, err := repo.Sensor(ctx, "d1")
		require.NoError(t, err, name)
		require.False(t, stored.Active, name)

		stored.Active = true
		require.NoError(t, repo.UpdateSensor(ctx, stored), name)

		stored, err = repo.Sensor(ctx, "d1")
		require.NoError(t, err, name)
		require.True(t, stored.Active, name)

		require.ErrorIs(t, repo.UpdateSensor(ctx, &domain.Sensor{ID: "nope"}), ErrSensorNotFound, name)

		require.NoError(t, repo.RemoveSensor(ctx, "w1"), name)
		require.ErrorIs(t, repo.RemoveSensor(ctx, "w1"), ErrSensorNotFound, name)

		_, err = repo.Sensor(ctx, "w1")
		require.ErrorIs(t, err, ErrSensorNotFound, name)

		sensors, err = repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Len(t, sensors, 1, name)
	}
}

// TestFileRepository_Persists ensures a second repository on the same path sees the data.
func TestFileRepository_Persists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "state.json")

	repo := NewFileRepository(file)
	require.Equal(t, file, repo.Path())
	require.NoError(t, repo.AddSensor(ctx, &domain.Sensor{ID: "m1", Name: "Hall", Type: domain.Motion, Active: true}))
	require.NoError(t, repo.SetArmingStatus(ctx, domain.ArmedHome))

	info, err := os.Stat(file)
	require.NoError(t, err)

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(StateFilePermissions), info.Mode().Perm())
	}

	reopened := NewFileRepository(file)

	arming, err := reopened.ArmingStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.ArmedHome, arming)

	sensor, err := reopened.Sensor(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, domain.Motion, sensor.Type)
	require.True(t, sensor.Active)
}

// TestFileRepository_CorruptFile verifies decode errors are reported, not masked.
func TestFileRepository_CorruptFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o600))

	_, err := NewFileRepository(file).AlarmStatus(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

// TestMemoryRepository_Seeded ensures the seed snapshot is copied.
func TestMemoryRepository_Seeded(t *testing.T) {
	t.Parallel()

	seed := domain.NewSnapshot()
	seed.AlarmStatus = domain.PendingAlarm
	seed.Sensors = append(seed.Sensors, &domain.Sensor{ID: "1", Name: "Door"})

	repo := NewMemoryRepository(seed)
	seed.Sensors[0].Active = true

	sensor, err := repo.Sensor(context.Background(), "1")
	require.NoError(t, err)
	require.False(t, sensor.Active)

	alarm, err := repo.AlarmStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.PendingAlarm, alarm)
}
