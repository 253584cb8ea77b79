package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
)

// Subjects events are published to.
const (
	SubjectAlarmStatus = "catpoint.alarm.status"
	SubjectCatDetected = "catpoint.camera.cat"
	SubjectSensors     = "catpoint.sensors"
)

const (
	maxReconnects = 10
	reconnectWait = 2 * time.Second
)

// Event is the JSON payload of every published message.
type Event struct {
	// Type repeats the subject for consumers subscribed with wildcards.
	Type string `json:"type"`
	// AlarmStatus is set for alarm status events.
	AlarmStatus *domain.AlarmStatus `json:"alarm_status,omitempty"`
	// CatDetected is set for camera events.
	CatDetected *bool `json:"cat_detected,omitempty"`
	// Timestamp is when the event was produced.
	Timestamp time.Time `json:"timestamp"`
}

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher sends status listener notifications to NATS.
// Publish failures are logged and never reach the state machine.
type Publisher struct {
	conn conn
	now  func() time.Time
}

// Connect dials NATS with reconnect settings and returns a publisher.
func Connect(ctx context.Context, url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("catpoint-server"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	logger.InfoKV(ctx, "Connected to NATS", "url", url)

	return newPublisher(nc), nil
}

func newPublisher(c conn) *Publisher {
	return &Publisher{
		conn: c,
		now:  time.Now,
	}
}

// Close drops the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}

	p.conn.Close()
}

// AlarmStatusChanged publishes the new alarm status.
func (p *Publisher) AlarmStatusChanged(ctx context.Context, status domain.AlarmStatus) {
	p.publish(ctx, &Event{Type: SubjectAlarmStatus, AlarmStatus: &status})
}

// CatDetected publishes the camera verdict.
func (p *Publisher) CatDetected(ctx context.Context, detected bool) {
	p.publish(ctx, &Event{Type: SubjectCatDetected, CatDetected: &detected})
}

// SensorsChanged publishes a sensor set change.
func (p *Publisher) SensorsChanged(ctx context.Context) {
	p.publish(ctx, &Event{Type: SubjectSensors})
}

func (p *Publisher) publish(ctx context.Context, event *Event) {
	event.Timestamp = p.now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode event", "subject", event.Type, "error", err)

		return
	}

	if err = p.conn.Publish(event.Type, data); err != nil {
		logger.ErrorKV(ctx, "Failed to publish event", "subject", event.Type, "error", err)

		return
	}

	logger.DebugKV(ctx, "Event published", "subject", event.Type)
}
