package security

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// Repository defines persistence operations for the controller state.
type Repository interface {
	ArmingStatus(ctx context.Context) (domain.ArmingStatus, error)
	SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error
	AlarmStatus(ctx context.Context) (domain.AlarmStatus, error)
	SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error
	Sensors(ctx context.Context) ([]*domain.Sensor, error)
	Sensor(ctx context.Context, id string) (*domain.Sensor, error)
	AddSensor(ctx context.Context, sensor *domain.Sensor) error
	RemoveSensor(ctx context.Context, id string) error
	UpdateSensor(ctx context.Context, sensor *domain.Sensor) error
}

var (
	// ErrNotFound is returned when the state file does not exist yet.
	ErrNotFound = errors.New("state not found")
	// ErrSensorNotFound is returned when no sensor has the requested ID.
	ErrSensorNotFound = errors.New("sensor not found")
	// ErrSensorExists is returned when adding a sensor whose ID is taken.
	ErrSensorExists = errors.New("sensor already exists")
)

// storage loads and saves a whole snapshot.
type storage interface {
	load(ctx context.Context) (*domain.Snapshot, error)
	save(ctx context.Context, snapshot *domain.Snapshot) error
}

// snapshotRepository implements Repository on top of a snapshot storage.
// Every call reads the snapshot, and every mutation writes it back.
type snapshotRepository struct {
	// storage holds the persisted snapshot.
	storage storage
	// mu serializes read-modify-write cycles on the snapshot.
	mu sync.Mutex
}

// ArmingStatus returns the persisted arming status.
func (r *snapshotRepository) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	snapshot, err := r.read(ctx)
	if err != nil {
		return domain.Disarmed, err
	}

	return snapshot.ArmingStatus, nil
}

// SetArmingStatus persists the arming status.
func (r *snapshotRepository) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	return r.modify(ctx, func(snapshot *domain.Snapshot) error {
		snapshot.ArmingStatus = status

		return nil
	})
}

// AlarmStatus returns the persisted alarm status.
func (r *snapshotRepository) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	snapshot, err := r.read(ctx)
	if err != nil {
		return domain.NoAlarm, err
	}

	return snapshot.AlarmStatus, nil
}

// SetAlarmStatus persists the alarm status.
func (r *snapshotRepository) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	return r.modify(ctx, func(snapshot *domain.Snapshot) error {
		snapshot.AlarmStatus = status

		return nil
	})
}

// Sensors returns copies of all sensors sorted by name.
func (r *snapshotRepository) Sensors(ctx context.Context) ([]*domain.Sensor, error) {
	snapshot, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	sensors := domain.CloneSensors(snapshot.Sensors)
	domain.SortSensors(sensors)

	return sensors, nil
}

// Sensor returns a copy of the sensor with the given ID.
func (r *snapshotRepository) Sensor(ctx context.Context, id string) (*domain.Sensor, error) {
	snapshot, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	index := snapshot.FindSensor(id)
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSensorNotFound, id)
	}

	return snapshot.Sensors[index].Clone(), nil
}

// AddSensor stores a new sensor.
func (r *snapshotRepository) AddSensor(ctx context.Context, sensor *domain.Sensor) error {
	return r.modify(ctx, func(snapshot *domain.Snapshot) error {
		if snapshot.FindSensor(sensor.ID) >= 0 {
			return fmt.Errorf("%w: %s", ErrSensorExists, sensor.ID)
		}

		snapshot.Sensors = append(snapshot.Sensors, sensor.Clone())

		return nil
	})
}

// RemoveSensor deletes the sensor with the given ID.
func (r *snapshotRepository) RemoveSensor(ctx context.Context, id string) error {
	return r.modify(ctx, func(snapshot *domain.Snapshot) error {
		index := snapshot.FindSensor(id)
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrSensorNotFound, id)
		}

		snapshot.Sensors = append(snapshot.Sensors[:index], snapshot.Sensors[index+1:]...)

		return nil
	})
}

// UpdateSensor replaces the stored sensor that has the same ID.
func (r *snapshotRepository) UpdateSensor(ctx context.Context, sensor *domain.Sensor) error {
	return r.modify(ctx, func(snapshot *domain.Snapshot) error {
		index := snapshot.FindSensor(sensor.ID)
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrSensorNotFound, sensor.ID)
		}

		snapshot.Sensors[index] = sensor.Clone()

		return nil
	})
}

// read loads the current snapshot, falling back to the initial state.
func (r *snapshotRepository) read(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadOrDefault(ctx)
}

// modify applies fn to the current snapshot and saves the result.
func (r *snapshotRepository) modify(ctx context.Context, fn func(snapshot *domain.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, err := r.loadOrDefault(ctx)
	if err != nil {
		return err
	}

	if err = fn(snapshot); err != nil {
		return err
	}

	return r.storage.save(ctx, snapshot)
}

func (r *snapshotRepository) loadOrDefault(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := r.storage.load(ctx)
	switch {
	case err == nil:
		return snapshot, nil
	case errors.Is(err, ErrNotFound):
		return domain.NewSnapshot(), nil
	default:
		return nil, err
	}
}
