//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
)

// Client wraps the gRPC SecurityService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the security server.
	conn *grpc.ClientConn
	// api is the SecurityService client.
	api *grpcapi.SecurityServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is attached to outgoing calls when set.
	actor *Actor
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the actor to every call.
func WithActor(actor Actor) Option {
	return func(c *Client) {
		c.actor = &actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errSensorIDRequired is returned when a sensor operation lacks an ID.
	errSensorIDRequired = errors.New("sensor id must be provided")
	// errImageRequired is returned when an empty image is submitted.
	errImageRequired = errors.New("image must be provided")
)

// Dial establishes a gRPC connection to the security server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpcapi.CallOptions()...),
	}
	if client.actor != nil {
		dialOptions = append(dialOptions, grpc.WithUnaryInterceptor(actorInterceptor(*client.actor)))
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial security server: %w", err)
	}

	client.conn = conn
	client.api = grpcapi.NewSecurityServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Status retrieves the current controller state.
func (c *Client) Status(ctx context.Context) (*grpcapi.StatusResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetStatus(callCtx, new(grpcapi.GetStatusRequest))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return resp, nil
}

// SetArmingStatus updates the remote arming status.
func (c *Client) SetArmingStatus(
	ctx context.Context,
	arming domain.ArmingStatus,
) (*grpcapi.StatusResponse, error) {
	if !arming.IsValid() {
		return nil, fmt.Errorf("set arming status: %w", domain.ErrUnknownArmingStatus)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SetArmingStatus(callCtx, &grpcapi.SetArmingStatusRequest{
		ArmingStatus: arming.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("set arming status: %w", err)
	}

	return resp, nil
}

// ChangeSensorActivation activates or deactivates a sensor.
func (c *Client) ChangeSensorActivation(
	ctx context.Context,
	sensorID string,
	active bool,
) (*grpcapi.SensorResponse, error) {
	if sensorID == "" {
		return nil, errSensorIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ChangeSensorActivation(callCtx, &grpcapi.ChangeSensorActivationRequest{
		SensorID: sensorID,
		Active:   active,
	})
	if err != nil {
		return nil, fmt.Errorf("change sensor activation: %w", err)
	}

	return resp, nil
}

// AddSensor registers a sensor; an empty id lets the server assign one.
func (c *Client) AddSensor(
	ctx context.Context,
	id, name string,
	sensorType domain.SensorType,
) (*grpcapi.SensorResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.AddSensor(callCtx, &grpcapi.AddSensorRequest{
		ID:   id,
		Name: name,
		Type: sensorType.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("add sensor: %w", err)
	}

	return resp, nil
}

// RemoveSensor deletes a sensor.
func (c *Client) RemoveSensor(ctx context.Context, sensorID string) (*grpcapi.StatusResponse, error) {
	if sensorID == "" {
		return nil, errSensorIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.RemoveSensor(callCtx, &grpcapi.RemoveSensorRequest{SensorID: sensorID})
	if err != nil {
		return nil, fmt.Errorf("remove sensor: %w", err)
	}

	return resp, nil
}

// ListSensors returns every registered sensor.
func (c *Client) ListSensors(ctx context.Context) ([]*grpcapi.Sensor, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListSensors(callCtx, new(grpcapi.ListSensorsRequest))
	if err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}

	return resp.Sensors, nil
}

// ProcessImage submits encoded image bytes for cat detection.
func (c *Client) ProcessImage(ctx context.Context, image []byte) (*grpcapi.ProcessImageResponse, error) {
	if len(image) == 0 {
		return nil, errImageRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ProcessImage(callCtx, &grpcapi.ProcessImageRequest{Image: image})
	if err != nil {
		return nil, fmt.Errorf("process image: %w", err)
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
