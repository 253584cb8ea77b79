package security

import (
	"context"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
)

// StatusListener is notified after an operation changed the controller state.
// Listeners are called synchronously, outside the service lock.
type StatusListener interface {
	AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus)
	CatDetected(ctx context.Context, detected bool)
	SensorsChanged(ctx context.Context)
}

// LogListener writes every notification to the context logger.
type LogListener struct{}

// AlarmStatusChanged logs the new alarm status.
func (LogListener) AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus) {
	logger.InfoKV(ctx, "Alarm status changed", "alarm_status", status.String())
}

// CatDetected logs the camera verdict.
func (LogListener) CatDetected(ctx context.Context, detected bool) {
	logger.InfoKV(ctx, "Camera image classified", "cat_detected", detected)
}

// SensorsChanged logs that the sensor set was updated.
func (LogListener) SensorsChanged(ctx context.Context) {
	logger.DebugKV(ctx, "Sensors changed")
}

// notifications collects what an operation changed so listeners can be
// called once the service lock is released.
type notifications struct {
	alarmStatus    *domain.AlarmStatus
	catDetected    *bool
	sensorsChanged bool
}

func (n *notifications) alarm(status domain.AlarmStatus) {
	n.alarmStatus = &status
}

func (n *notifications) cat(detected bool) {
	n.catDetected = &detected
}

func (n *notifications) sensors() {
	n.sensorsChanged = true
}
