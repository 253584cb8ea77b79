package security

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/imaging"
	"github.com/oshokin/catpoint/internal/logger"
	repo "github.com/oshokin/catpoint/internal/repository/security"
)

// CatConfidenceThreshold is the confidence percentage passed to the classifier.
const CatConfidenceThreshold float32 = 50

var (
	// ErrInvalidArmingStatus is returned for an arming status outside the enumeration.
	ErrInvalidArmingStatus = errors.New("invalid arming status")
	// ErrInvalidSensor is returned when a sensor has no name or an unknown type.
	ErrInvalidSensor = errors.New("invalid sensor")
	// ErrSensorNotFound is returned when no sensor has the requested ID.
	ErrSensorNotFound = repo.ErrSensorNotFound
	// ErrSensorExists is returned when adding a sensor whose ID is taken.
	ErrSensorExists = repo.ErrSensorExists
)

// Service owns the alarm state machine.
// Every operation holds mu for its whole repository read-modify-write cycle.
type Service struct {
	// repo is the single source of truth for statuses and sensors.
	repo repo.Repository
	// classifier tells whether a camera image contains a cat.
	classifier imaging.Classifier
	// mu serializes state machine transitions.
	mu sync.Mutex

	// listeners are notified after successful transitions.
	listeners []StatusListener
	// listenersMu protects listeners independently of mu.
	listenersMu sync.RWMutex
}

// NewService creates a service backed by the provided repository and classifier.
func NewService(repository repo.Repository, classifier imaging.Classifier) *Service {
	return &Service{
		repo:       repository,
		classifier: classifier,
	}
}

// AddStatusListener registers a listener.
func (s *Service) AddStatusListener(listener StatusListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = append(s.listeners, listener)
}

// RemoveStatusListener unregisters a listener added earlier.
func (s *Service) RemoveStatusListener(listener StatusListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = slices.DeleteFunc(s.listeners, func(l StatusListener) bool {
		return l == listener
	})
}

// ArmingStatus returns the current arming status.
func (s *Service) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	status, err := s.repo.ArmingStatus(ctx)
	if err != nil {
		return domain.Disarmed, fmt.Errorf("get arming status: %w", err)
	}

	return status, nil
}

// AlarmStatus returns the current alarm status.
func (s *Service) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	status, err := s.repo.AlarmStatus(ctx)
	if err != nil {
		return domain.NoAlarm, fmt.Errorf("get alarm status: %w", err)
	}

	return status, nil
}

// Sensors returns all registered sensors.
func (s *Service) Sensors(ctx context.Context) ([]*domain.Sensor, error) {
	sensors, err := s.repo.Sensors(ctx)
	if err != nil {
		return nil, fmt.Errorf("get sensors: %w", err)
	}

	return sensors, nil
}

// Snapshot returns a consistent view of statuses and sensors.
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arming, err := s.ArmingStatus(ctx)
	if err != nil {
		return nil, err
	}

	alarm, err := s.AlarmStatus(ctx)
	if err != nil {
		return nil, err
	}

	sensors, err := s.Sensors(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		ArmingStatus: arming,
		AlarmStatus:  alarm,
		Sensors:      sensors,
	}, nil
}

// AddSensor registers a new sensor, assigning an ID when none is given.
// New sensors start inactive.
func (s *Service) AddSensor(ctx context.Context, sensor *domain.Sensor) (*domain.Sensor, error) {
	if sensor == nil {
		return nil, fmt.Errorf("%w: sensor is required", ErrInvalidSensor)
	}

	created := sensor.Clone()
	created.Name = strings.TrimSpace(created.Name)
	created.Active = false

	if created.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSensor)
	}

	if !created.Type.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSensor, created.Type)
	}

	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	s.mu.Lock()
	err := s.repo.AddSensor(ctx, created)
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("add sensor: %w", err)
	}

	logger.InfoKV(ctx, "Sensor added", "sensor_id", created.ID, "name", created.Name, "type", created.Type.String())
	s.notify(ctx, &notifications{sensorsChanged: true})

	return created.Clone(), nil
}

// RemoveSensor deletes a sensor.
// Removing a sensor does not re-evaluate the alarm status.
func (s *Service) RemoveSensor(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.repo.RemoveSensor(ctx, id)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("remove sensor: %w", err)
	}

	logger.InfoKV(ctx, "Sensor removed", "sensor_id", id)
	s.notify(ctx, &notifications{sensorsChanged: true})

	return nil
}

// ChangeSensorActivationStatus records a sensor activation change and moves
// the alarm status accordingly. It returns the stored sensor.
//
// Under ALARM the new sensor flag is still stored so the sensor list stays
// accurate, but the alarm status never changes; only disarming clears it.
func (s *Service) ChangeSensorActivationStatus(
	ctx context.Context,
	sensorID string,
	active bool,
) (*domain.Sensor, error) {
	ctx = logger.WithKV(ctx, "sensor_id", sensorID, "active", active)

	var changes notifications

	s.mu.Lock()
	sensor, err := s.changeSensorActivation(ctx, sensorID, active, &changes)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.notify(ctx, &changes)

	return sensor, nil
}

func (s *Service) changeSensorActivation(
	ctx context.Context,
	sensorID string,
	active bool,
	changes *notifications,
) (*domain.Sensor, error) {
	sensor, err := s.repo.Sensor(ctx, sensorID)
	if err != nil {
		return nil, fmt.Errorf("get sensor: %w", err)
	}

	current, err := s.AlarmStatus(ctx)
	if err != nil {
		return nil, err
	}

	if sensor.Active == active {
		// A repeated activation still counts as a fresh trigger while pending.
		if active && current == domain.PendingAlarm {
			if err = s.setAlarmStatus(ctx, current, domain.Alarm, changes); err != nil {
				return nil, err
			}
		}

		return sensor, nil
	}

	sensor.Active = active
	if err = s.repo.UpdateSensor(ctx, sensor); err != nil {
		return nil, fmt.Errorf("update sensor: %w", err)
	}

	changes.sensors()

	switch {
	case current == domain.Alarm:
		// Only disarming clears an alarm.
	case active:
		err = s.setAlarmStatus(ctx, current, current.Escalate(), changes)
	case current == domain.PendingAlarm:
		err = s.resetIfAllInactive(ctx, current, changes)
	}

	if err != nil {
		return nil, err
	}

	return sensor, nil
}

// ProcessImage classifies a camera image and updates the alarm status.
// It returns whether a cat was detected.
func (s *Service) ProcessImage(ctx context.Context, img image.Image) (bool, error) {
	cat, err := s.classifier.ContainsCat(ctx, img, CatConfidenceThreshold)
	if err != nil {
		return false, fmt.Errorf("classify image: %w", err)
	}

	var changes notifications

	s.mu.Lock()
	err = s.catDetected(ctx, cat, &changes)
	s.mu.Unlock()

	if err != nil {
		return false, err
	}

	changes.cat(cat)
	s.notify(ctx, &changes)

	return cat, nil
}

func (s *Service) catDetected(ctx context.Context, cat bool, changes *notifications) error {
	current, err := s.AlarmStatus(ctx)
	if err != nil {
		return err
	}

	if cat {
		arming, err := s.ArmingStatus(ctx)
		if err != nil {
			return err
		}

		if arming == domain.ArmedHome {
			return s.setAlarmStatus(ctx, current, domain.Alarm, changes)
		}

		return nil
	}

	if current == domain.Alarm {
		return nil
	}

	return s.resetIfAllInactive(ctx, current, changes)
}

// SetArmingStatus changes the arming status.
// Disarming clears the alarm; arming resets every sensor to inactive.
func (s *Service) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidArmingStatus, status)
	}

	ctx = logger.WithKV(ctx, "arming_status", status.String())

	var changes notifications

	s.mu.Lock()
	err := s.setArmingStatus(ctx, status, &changes)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Arming status changed")
	s.notify(ctx, &changes)

	return nil
}

func (s *Service) setArmingStatus(ctx context.Context, status domain.ArmingStatus, changes *notifications) error {
	if status == domain.Disarmed {
		current, err := s.AlarmStatus(ctx)
		if err != nil {
			return err
		}

		if err = s.setAlarmStatus(ctx, current, domain.NoAlarm, changes); err != nil {
			return err
		}
	} else if err := s.deactivateAll(ctx, changes); err != nil {
		return err
	}

	if err := s.repo.SetArmingStatus(ctx, status); err != nil {
		return fmt.Errorf("set arming status: %w", err)
	}

	return nil
}

// deactivateAll resets every active sensor to inactive.
func (s *Service) deactivateAll(ctx context.Context, changes *notifications) error {
	sensors, err := s.Sensors(ctx)
	if err != nil {
		return err
	}

	for _, sensor := range sensors {
		if !sensor.Active {
			continue
		}

		sensor.Active = false
		if err = s.repo.UpdateSensor(ctx, sensor); err != nil {
			return fmt.Errorf("reset sensor %s: %w", sensor.ID, err)
		}

		changes.sensors()
	}

	return nil
}

// resetIfAllInactive clears the alarm status when no sensor is active.
func (s *Service) resetIfAllInactive(ctx context.Context, current domain.AlarmStatus, changes *notifications) error {
	sensors, err := s.Sensors(ctx)
	if err != nil {
		return err
	}

	if !domain.AllInactive(sensors) {
		return nil
	}

	return s.setAlarmStatus(ctx, current, domain.NoAlarm, changes)
}

// setAlarmStatus writes the alarm status and records a change when it differs.
func (s *Service) setAlarmStatus(
	ctx context.Context,
	current, next domain.AlarmStatus,
	changes *notifications,
) error {
	if err := s.repo.SetAlarmStatus(ctx, next); err != nil {
		return fmt.Errorf("set alarm status: %w", err)
	}

	if current != next {
		logger.InfoKV(ctx, "Alarm status updated", "from", current.String(), "to", next.String())
		changes.alarm(next)
	}

	return nil
}

// notify calls every listener with the recorded changes.
func (s *Service) notify(ctx context.Context, changes *notifications) {
	s.listenersMu.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.RUnlock()

	for _, listener := range listeners {
		if changes.alarmStatus != nil {
			listener.AlarmStatusChanged(ctx, *changes.alarmStatus)
		}

		if changes.catDetected != nil {
			listener.CatDetected(ctx, *changes.catDetected)
		}

		if changes.sensorsChanged {
			listener.SensorsChanged(ctx)
		}
	}
}
