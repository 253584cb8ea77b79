package security

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseArmingStatus checks names, separators and case handling.
func TestParseArmingStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]ArmingStatus{
		"DISARMED":    Disarmed,
		"armed_home":  ArmedHome,
		"armed-away":  ArmedAway,
		" Armed-Home": ArmedHome,
	}
	for input, want := range cases {
		got, err := ParseArmingStatus(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	_, err := ParseArmingStatus("armed")
	require.ErrorIs(t, err, ErrUnknownArmingStatus)
}

// TestAlarmStatusEscalate verifies the escalation ladder stops at ALARM.
func TestAlarmStatusEscalate(t *testing.T) {
	t.Parallel()

	require.Equal(t, PendingAlarm, NoAlarm.Escalate())
	require.Equal(t, Alarm, PendingAlarm.Escalate())
	require.Equal(t, Alarm, Alarm.Escalate())
	require.Less(t, NoAlarm, PendingAlarm)
	require.Less(t, PendingAlarm, Alarm)
}

// TestEnumStrings ensures unknown values still render without panicking.
func TestEnumStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ARMED_AWAY", ArmedAway.String())
	require.Equal(t, "PENDING_ALARM", PendingAlarm.String())
	require.Equal(t, "MOTION", Motion.String())
	require.Equal(t, "ArmingStatus(7)", ArmingStatus(7).String())
	require.Equal(t, "AlarmStatus(-1)", AlarmStatus(-1).String())
	require.Equal(t, "SensorType(3)", SensorType(3).String())
	require.True(t, ArmedHome.IsArmed())
	require.False(t, Disarmed.IsArmed())
}

// TestSnapshotJSON verifies enums are encoded by name inside a snapshot.
func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	snapshot := &Snapshot{
		ArmingStatus: ArmedAway,
		AlarmStatus:  PendingAlarm,
		Sensors: []*Sensor{
			{ID: "s1", Name: "Front door", Type: Door, Active: true},
		},
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"arming_status": "ARMED_AWAY",
		"alarm_status": "PENDING_ALARM",
		"sensors": [{"id": "s1", "name": "Front door", "type": "DOOR", "active": true}]
	}`, string(data))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, snapshot, &decoded)

	_, err = json.Marshal(&Snapshot{ArmingStatus: ArmingStatus(9)})
	require.Error(t, err)
}
