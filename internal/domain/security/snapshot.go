package security

// Snapshot is the whole persisted state of the controller.
type Snapshot struct {
	// ArmingStatus is the current arming mode.
	ArmingStatus ArmingStatus `json:"arming_status"`
	// AlarmStatus is the output of the alarm state machine.
	AlarmStatus AlarmStatus `json:"alarm_status"`
	// Sensors is the set of registered sensors.
	Sensors []*Sensor `json:"sensors"`
}

// NewSnapshot returns the initial state: disarmed, no alarm, no sensors.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ArmingStatus: Disarmed,
		AlarmStatus:  NoAlarm,
		Sensors:      make([]*Sensor, 0),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	return &Snapshot{
		ArmingStatus: s.ArmingStatus,
		AlarmStatus:  s.AlarmStatus,
		Sensors:      CloneSensors(s.Sensors),
	}
}

// FindSensor returns the index of the sensor with the given ID, or -1.
func (s *Snapshot) FindSensor(id string) int {
	for i, sensor := range s.Sensors {
		if sensor.ID == id {
			return i
		}
	}

	return -1
}
