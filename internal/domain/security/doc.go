// Package security contains core domain types for the home security controller.
//
// It defines the Sensor entity, the SensorType, ArmingStatus and AlarmStatus
// enumerations, and the Snapshot of everything the alarm state machine reads
// and writes, with Clone helpers to avoid leaking internal references.
package security
