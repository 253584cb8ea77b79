package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSensorClone verifies that Clone returns a copy and handles nil safely.
func TestSensorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Sensor)(nil).Clone())

	a := &Sensor{ID: "1", Name: "Hall", Type: Motion, Active: true}
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}

// TestSortSensors orders by name and breaks ties by ID.
func TestSortSensors(t *testing.T) {
	t.Parallel()

	sensors := []*Sensor{
		{ID: "b", Name: "Window"},
		{ID: "z", Name: "Door"},
		{ID: "a", Name: "Window"},
	}

	SortSensors(sensors)

	require.Equal(t, "z", sensors[0].ID)
	require.Equal(t, "a", sensors[1].ID)
	require.Equal(t, "b", sensors[2].ID)
}

// TestAllInactive covers empty, inactive and partially active sets.
func TestAllInactive(t *testing.T) {
	t.Parallel()

	require.True(t, AllInactive(nil))
	require.True(t, AllInactive([]*Sensor{{ID: "1"}, {ID: "2"}}))
	require.False(t, AllInactive([]*Sensor{{ID: "1"}, {ID: "2", Active: true}}))
}

// TestSnapshotClone ensures sensors are deep-copied.
func TestSnapshotClone(t *testing.T) {
	t.Parallel()

	s := NewSnapshot()
	s.Sensors = append(s.Sensors, &Sensor{ID: "1", Name: "Door"})

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s.Sensors[0], c.Sensors[0])

	c.Sensors[0].Active = true
	require.False(t, s.Sensors[0].Active)
	require.Equal(t, 0, s.FindSensor("1"))
	require.Equal(t, -1, s.FindSensor("2"))
}
