package security

import (
	"context"
	"errors"
	"image"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/imaging"
	"github.com/oshokin/catpoint/internal/logger"
	service "github.com/oshokin/catpoint/internal/service/security"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	AlarmStatus(ctx context.Context) (domain.AlarmStatus, error)
	Sensors(ctx context.Context) ([]*domain.Sensor, error)
	SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error
	ChangeSensorActivationStatus(ctx context.Context, sensorID string, active bool) (*domain.Sensor, error)
	AddSensor(ctx context.Context, sensor *domain.Sensor) (*domain.Sensor, error)
	RemoveSensor(ctx context.Context, id string) error
	ProcessImage(ctx context.Context, img image.Image) (bool, error)
}

// Server implements the SecurityService gRPC API.
type Server struct {
	// service provides the business logic for security operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetStatus returns the current controller state.
func (s *Server) GetStatus(ctx context.Context, _ *GetStatusRequest) (*StatusResponse, error) {
	return s.status(ctx)
}

// SetArmingStatus changes the arming status and returns the resulting state.
func (s *Server) SetArmingStatus(ctx context.Context, req *SetArmingStatusRequest) (*StatusResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	arming, err := domain.ParseArmingStatus(req.ArmingStatus)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err = s.service.SetArmingStatus(ctx, arming); err != nil {
		return nil, toStatusError(ctx, err)
	}

	return s.status(ctx)
}

// ChangeSensorActivation activates or deactivates a sensor.
func (s *Server) ChangeSensorActivation(
	ctx context.Context,
	req *ChangeSensorActivationRequest,
) (*SensorResponse, error) {
	if req == nil || req.SensorID == "" {
		return nil, status.Error(codes.InvalidArgument, "sensor_id is required")
	}

	sensor, err := s.service.ChangeSensorActivationStatus(ctx, req.SensorID, req.Active)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return s.sensorResponse(ctx, sensor)
}

// AddSensor registers a new sensor.
func (s *Server) AddSensor(ctx context.Context, req *AddSensorRequest) (*SensorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	sensorType, err := domain.ParseSensorType(req.Type)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	sensor, err := s.service.AddSensor(ctx, &domain.Sensor{
		ID:   req.ID,
		Name: req.Name,
		Type: sensorType,
	})
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return s.sensorResponse(ctx, sensor)
}

// RemoveSensor deletes a sensor and returns the resulting state.
func (s *Server) RemoveSensor(ctx context.Context, req *RemoveSensorRequest) (*StatusResponse, error) {
	if req == nil || req.SensorID == "" {
		return nil, status.Error(codes.InvalidArgument, "sensor_id is required")
	}

	if err := s.service.RemoveSensor(ctx, req.SensorID); err != nil {
		return nil, toStatusError(ctx, err)
	}

	return s.status(ctx)
}

// ListSensors returns all sensors.
func (s *Server) ListSensors(ctx context.Context, _ *ListSensorsRequest) (*ListSensorsResponse, error) {
	sensors, err := s.service.Sensors(ctx)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return &ListSensorsResponse{Sensors: toWireSensors(sensors)}, nil
}

// ProcessImage decodes and classifies a camera image.
func (s *Server) ProcessImage(ctx context.Context, req *ProcessImageRequest) (*ProcessImageResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	img, format, err := imaging.Decode(req.Image)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	logger.DebugKV(ctx, "Camera image received", "format", format, "bytes", len(req.Image))

	cat, err := s.service.ProcessImage(ctx, img)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	alarm, err := s.service.AlarmStatus(ctx)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return &ProcessImageResponse{
		CatDetected: cat,
		AlarmStatus: alarm.String(),
	}, nil
}

func (s *Server) status(ctx context.Context) (*StatusResponse, error) {
	snapshot, err := s.service.Snapshot(ctx)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return ToStatusResponse(snapshot), nil
}

func (s *Server) sensorResponse(ctx context.Context, sensor *domain.Sensor) (*SensorResponse, error) {
	alarm, err := s.service.AlarmStatus(ctx)
	if err != nil {
		return nil, toStatusError(ctx, err)
	}

	return &SensorResponse{
		Sensor:      toWireSensor(sensor),
		AlarmStatus: alarm.String(),
	}, nil
}

// toStatusError maps service errors to gRPC status codes.
func toStatusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrSensorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrSensorExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrInvalidSensor),
		errors.Is(err, service.ErrInvalidArmingStatus),
		errors.Is(err, imaging.ErrNoImage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		logger.ErrorKV(ctx, "Security operation failed", "error", err)

		return status.Error(codes.Internal, "security operation failed")
	}
}

// ToStatusResponse converts a domain snapshot to its wire form.
func ToStatusResponse(snapshot *domain.Snapshot) *StatusResponse {
	if snapshot == nil {
		return &StatusResponse{}
	}

	return &StatusResponse{
		ArmingStatus: snapshot.ArmingStatus.String(),
		AlarmStatus:  snapshot.AlarmStatus.String(),
		Sensors:      toWireSensors(snapshot.Sensors),
	}
}

func toWireSensors(sensors []*domain.Sensor) []*Sensor {
	result := make([]*Sensor, 0, len(sensors))
	for _, sensor := range sensors {
		result = append(result, toWireSensor(sensor))
	}

	return result
}

func toWireSensor(sensor *domain.Sensor) *Sensor {
	if sensor == nil {
		return nil
	}

	return &Sensor{
		ID:     sensor.ID,
		Name:   sensor.Name,
		Type:   sensor.Type.String(),
		Active: sensor.Active,
	}
}
