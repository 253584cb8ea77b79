package security

import (
	"context"

	"google.golang.org/grpc"
)

// SecurityServiceClient is the client API of the security service.
type SecurityServiceClient struct {
	// cc is the connection used for every call.
	cc grpc.ClientConnInterface
}

// NewSecurityServiceClient creates a client over the provided connection.
func NewSecurityServiceClient(cc grpc.ClientConnInterface) *SecurityServiceClient {
	return &SecurityServiceClient{cc: cc}
}

// GetStatus returns the controller state.
func (c *SecurityServiceClient) GetStatus(
	ctx context.Context,
	in *GetStatusRequest,
	opts ...grpc.CallOption,
) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodGetStatus, in, opts)
}

// SetArmingStatus changes the arming status.
func (c *SecurityServiceClient) SetArmingStatus(
	ctx context.Context,
	in *SetArmingStatusRequest,
	opts ...grpc.CallOption,
) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodSetArmingStatus, in, opts)
}

// ChangeSensorActivation activates or deactivates a sensor.
func (c *SecurityServiceClient) ChangeSensorActivation(
	ctx context.Context,
	in *ChangeSensorActivationRequest,
	opts ...grpc.CallOption,
) (*SensorResponse, error) {
	return invoke[SensorResponse](ctx, c.cc, MethodChangeSensorActivation, in, opts)
}

// AddSensor registers a sensor.
func (c *SecurityServiceClient) AddSensor(
	ctx context.Context,
	in *AddSensorRequest,
	opts ...grpc.CallOption,
) (*SensorResponse, error) {
	return invoke[SensorResponse](ctx, c.cc, MethodAddSensor, in, opts)
}

// RemoveSensor deletes a sensor.
func (c *SecurityServiceClient) RemoveSensor(
	ctx context.Context,
	in *RemoveSensorRequest,
	opts ...grpc.CallOption,
) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodRemoveSensor, in, opts)
}

// ListSensors returns all sensors.
func (c *SecurityServiceClient) ListSensors(
	ctx context.Context,
	in *ListSensorsRequest,
	opts ...grpc.CallOption,
) (*ListSensorsResponse, error) {
	return invoke[ListSensorsResponse](ctx, c.cc, MethodListSensors, in, opts)
}

// ProcessImage sends a camera image for classification.
func (c *SecurityServiceClient) ProcessImage(
	ctx context.Context,
	in *ProcessImageRequest,
	opts ...grpc.CallOption,
) (*ProcessImageResponse, error) {
	return invoke[ProcessImageResponse](ctx, c.cc, MethodProcessImage, in, opts)
}

// invoke performs a unary call using the JSON codec.
func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	callOptions := append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)

	if err := cc.Invoke(ctx, FullMethod(method), in, out, callOptions...); err != nil {
		return nil, err
	}

	return out, nil
}
