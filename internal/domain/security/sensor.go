package security

import (
	"cmp"
	"slices"
)

// Sensor is a door, window or motion detector known to the controller.
type Sensor struct {
	// ID is the stable identity of the sensor.
	ID string `json:"id"`
	// Name is the human-readable label shown to users.
	Name string `json:"name"`
	// Type tells what kind of detector this is.
	Type SensorType `json:"type"`
	// Active is true while the sensor reports potential intrusion.
	Active bool `json:"active"`
}

// Clone returns a copy of the sensor.
func (s *Sensor) Clone() *Sensor {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// CompareSensors orders sensors by name, then by ID.
func CompareSensors(a, b *Sensor) int {
	return cmp.Or(
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.ID, b.ID),
	)
}

// SortSensors sorts sensors in place using CompareSensors.
func SortSensors(sensors []*Sensor) {
	slices.SortFunc(sensors, CompareSensors)
}

// CloneSensors returns deep copies of the provided sensors.
func CloneSensors(sensors []*Sensor) []*Sensor {
	if sensors == nil {
		return nil
	}

	result := make([]*Sensor, 0, len(sensors))
	for _, sensor := range sensors {
		result = append(result, sensor.Clone())
	}

	return result
}

// AllInactive reports whether no sensor in the set is active.
// It is recomputed on every call and never cached.
func AllInactive(sensors []*Sensor) bool {
	for _, sensor := range sensors {
		if sensor.Active {
			return false
		}
	}

	return true
}
