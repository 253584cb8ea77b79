package security

import (
	"errors"
	"fmt"
	"strings"
)

// ArmingStatus tells whether the system is disarmed or armed.
type ArmingStatus int

const (
	// Disarmed means sensor and camera events are not expected to raise an alarm.
	Disarmed ArmingStatus = iota
	// ArmedHome means the occupants are at home; the camera watches for cats.
	ArmedHome
	// ArmedAway means the house is empty.
	ArmedAway
)

// AlarmStatus is the escalation level of a detected intrusion.
// Values are ordered by severity.
type AlarmStatus int

const (
	// NoAlarm is the initial status.
	NoAlarm AlarmStatus = iota
	// PendingAlarm waits for a confirmation before the alarm goes off.
	PendingAlarm
	// Alarm is sticky: only disarming clears it.
	Alarm
)

// SensorType carries no behavior; it only labels a sensor.
type SensorType int

const (
	// Door sensor.
	Door SensorType = iota
	// Window sensor.
	Window
	// Motion sensor.
	Motion
)

var (
	// ErrUnknownArmingStatus is returned when an arming status cannot be parsed.
	ErrUnknownArmingStatus = errors.New("unknown arming status")
	// ErrUnknownAlarmStatus is returned when an alarm status cannot be parsed.
	ErrUnknownAlarmStatus = errors.New("unknown alarm status")
	// ErrUnknownSensorType is returned when a sensor type cannot be parsed.
	ErrUnknownSensorType = errors.New("unknown sensor type")
)

//nolint:gochecknoglobals // Lookup tables for the closed enumerations.
var (
	armingStatusNames = [...]string{"DISARMED", "ARMED_HOME", "ARMED_AWAY"}
	alarmStatusNames  = [...]string{"NO_ALARM", "PENDING_ALARM", "ALARM"}
	sensorTypeNames   = [...]string{"DOOR", "WINDOW", "MOTION"}
)

// ArmingStatuses lists every arming status in declaration order.
func ArmingStatuses() []ArmingStatus {
	return []ArmingStatus{Disarmed, ArmedHome, ArmedAway}
}

// IsValid reports whether s is one of the declared arming statuses.
func (s ArmingStatus) IsValid() bool {
	return s >= Disarmed && s <= ArmedAway
}

// IsArmed reports whether s is one of the armed variants.
func (s ArmingStatus) IsArmed() bool {
	return s == ArmedHome || s == ArmedAway
}

func (s ArmingStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("ArmingStatus(%d)", int(s))
	}

	return armingStatusNames[s]
}

// MarshalText encodes the status by name.
func (s ArmingStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArmingStatus, int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText decodes the status from its name.
func (s *ArmingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseArmingStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseArmingStatus converts a name such as "armed-home" into an ArmingStatus.
func ParseArmingStatus(value string) (ArmingStatus, error) {
	index, ok := lookupName(armingStatusNames[:], value)
	if !ok {
		return Disarmed, fmt.Errorf("%w: %q", ErrUnknownArmingStatus, value)
	}

	return ArmingStatus(index), nil
}

// IsValid reports whether s is one of the declared alarm statuses.
func (s AlarmStatus) IsValid() bool {
	return s >= NoAlarm && s <= Alarm
}

// Escalate returns the next status after a sensor activation.
func (s AlarmStatus) Escalate() AlarmStatus {
	if s >= Alarm {
		return Alarm
	}

	return s + 1
}

func (s AlarmStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("AlarmStatus(%d)", int(s))
	}

	return alarmStatusNames[s]
}

// MarshalText encodes the status by name.
func (s AlarmStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlarmStatus, int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText decodes the status from its name.
func (s *AlarmStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAlarmStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseAlarmStatus converts a name such as "pending_alarm" into an AlarmStatus.
func ParseAlarmStatus(value string) (AlarmStatus, error) {
	index, ok := lookupName(alarmStatusNames[:], value)
	if !ok {
		return NoAlarm, fmt.Errorf("%w: %q", ErrUnknownAlarmStatus, value)
	}

	return AlarmStatus(index), nil
}

// IsValid reports whether t is one of the declared sensor types.
func (t SensorType) IsValid() bool {
	return t >= Door && t <= Motion
}

func (t SensorType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("SensorType(%d)", int(t))
	}

	return sensorTypeNames[t]
}

// MarshalText encodes the type by name.
func (t SensorType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSensorType, int(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText decodes the type from its name.
func (t *SensorType) UnmarshalText(text []byte) error {
	parsed, err := ParseSensorType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// ParseSensorType converts a name such as "window" into a SensorType.
func ParseSensorType(value string) (SensorType, error) {
	index, ok := lookupName(sensorTypeNames[:], value)
	if !ok {
		return Door, fmt.Errorf("%w: %q", ErrUnknownSensorType, value)
	}

	return SensorType(index), nil
}

// lookupName matches value against names ignoring case, accepting '-' for '_'.
func lookupName(names []string, value string) (int, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), "-", "_"))

	for i, name := range names {
		if name == normalized {
			return i, true
		}
	}

	return 0, false
}
