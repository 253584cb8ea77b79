package security

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/imaging"
	repo "github.com/oshokin/catpoint/internal/repository/security"
	service "github.com/oshokin/catpoint/internal/service/security"
)

var errTestBackend = errors.New("test backend error")

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// snapshot is returned by Snapshot.
	snapshot *domain.Snapshot
	// err is returned by every mutating call when set.
	err error
	// arming records the last arming status received.
	arming domain.ArmingStatus
	// panics makes Snapshot panic.
	panics bool
}

func (f *fakeService) Snapshot(context.Context) (*domain.Snapshot, error) {
	if f.panics {
		panic("boom")
	}

	return f.snapshot, nil
}

func (f *fakeService) AlarmStatus(context.Context) (domain.AlarmStatus, error) {
	return f.snapshot.AlarmStatus, nil
}

func (f *fakeService) Sensors(context.Context) ([]*domain.Sensor, error) {
	return f.snapshot.Sensors, f.err
}

func (f *fakeService) SetArmingStatus(_ context.Context, status domain.ArmingStatus) error {
	f.arming = status

	return f.err
}

func (f *fakeService) ChangeSensorActivationStatus(_ context.Context, id string, active bool) (*domain.Sensor, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &domain.Sensor{ID: id, Name: "Door", Active: active}, nil
}

func (f *fakeService) AddSensor(_ context.Context, sensor *domain.Sensor) (*domain.Sensor, error) {
	return sensor, f.err
}

func (f *fakeService) RemoveSensor(context.Context, string) error {
	return f.err
}

func (f *fakeService) ProcessImage(context.Context, image.Image) (bool, error) {
	return true, f.err
}

// encodedImage returns a PNG camera frame.
func encodedImage(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))

	return buf.Bytes()
}

// TestServer_Validation ensures invalid requests return InvalidArgument errors.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeService{snapshot: domain.NewSnapshot()})
	ctx := context.Background()

	_, err := s.SetArmingStatus(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SetArmingStatus(ctx, &SetArmingStatusRequest{ArmingStatus: "sleeping"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.ChangeSensorActivation(ctx, &ChangeSensorActivationRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.AddSensor(ctx, &AddSensorRequest{Name: "Garage", Type: "balloon"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.RemoveSensor(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.ProcessImage(ctx, &ProcessImageRequest{Image: []byte("nope")})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_ErrorMapping checks service errors become the matching status codes.
func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cases := map[error]codes.Code{
		service.ErrSensorNotFound:      codes.NotFound,
		service.ErrSensorExists:        codes.AlreadyExists,
		service.ErrInvalidSensor:       codes.InvalidArgument,
		service.ErrInvalidArmingStatus: codes.InvalidArgument,
		context.DeadlineExceeded:       codes.DeadlineExceeded,
		errTestBackend:                 codes.Internal,
	}

	for err, code := range cases {
		s := NewServer(&fakeService{snapshot: domain.NewSnapshot(), err: err})

		_, got := s.ChangeSensorActivation(ctx, &ChangeSensorActivationRequest{SensorID: "s1", Active: true})
		require.Equal(t, code, status.Code(got), err.Error())
	}
}

// TestServer_Conversions exercises the successful paths of every handler.
func TestServer_Conversions(t *testing.T) {
	t.Parallel()

	fake := &fakeService{snapshot: &domain.Snapshot{
		ArmingStatus: domain.ArmedHome,
		AlarmStatus:  domain.PendingAlarm,
		Sensors:      []*domain.Sensor{{ID: "s1", Name: "Door", Type: domain.Door, Active: true}},
	}}
	s := NewServer(fake)
	ctx := context.Background()

	statusResponse, err := s.SetArmingStatus(ctx, &SetArmingStatusRequest{ArmingStatus: "armed-home"})
	require.NoError(t, err)
	require.Equal(t, domain.ArmedHome, fake.arming)
	require.Equal(t, "ARMED_HOME", statusResponse.ArmingStatus)
	require.Equal(t, "PENDING_ALARM", statusResponse.AlarmStatus)
	require.Equal(t, []*Sensor{{ID: "s1", Name: "Door", Type: "DOOR", Active: true}}, statusResponse.Sensors)

	sensorResponse, err := s.AddSensor(ctx, &AddSensorRequest{Name: "Hall", Type: "motion"})
	require.NoError(t, err)
	require.Equal(t, "MOTION", sensorResponse.Sensor.Type)

	list, err := s.ListSensors(ctx, new(ListSensorsRequest))
	require.NoError(t, err)
	require.Len(t, list.Sensors, 1)

	imageResponse, err := s.ProcessImage(ctx, &ProcessImageRequest{Image: encodedImage(t)})
	require.NoError(t, err)
	require.True(t, imageResponse.CatDetected)
	require.Equal(t, "PENDING_ALARM", imageResponse.AlarmStatus)

	require.Equal(t, &StatusResponse{}, ToStatusResponse(nil))
}

// dialBufconn serves the given server over an in-memory listener and returns a client.
func dialBufconn(t *testing.T, server SecurityServiceServer) *SecurityServiceClient {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	grpcServer := NewGRPCServer(context.Background())
	RegisterSecurityServiceServer(grpcServer, server)

	go func() {
		_ = grpcServer.Serve(listener)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(CallOptions()...),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		grpcServer.Stop()
	})

	return NewSecurityServiceClient(conn)
}

// TestServer_OverTheWire drives the real state machine through the JSON codec.
func TestServer_OverTheWire(t *testing.T) {
	t.Parallel()

	svc := service.NewService(repo.NewMemoryRepository(nil), imaging.StaticClassifier(false))
	client := dialBufconn(t, NewServer(svc))
	ctx := context.Background()

	added, err := client.AddSensor(ctx, &AddSensorRequest{ID: "front", Name: "Front door", Type: "DOOR"})
	require.NoError(t, err)
	require.Equal(t, "front", added.Sensor.ID)
	require.Equal(t, "NO_ALARM", added.AlarmStatus)

	_, err = client.AddSensor(ctx, &AddSensorRequest{ID: "front", Name: "Again", Type: "DOOR"})
	require.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.SetArmingStatus(ctx, &SetArmingStatusRequest{ArmingStatus: "ARMED_AWAY"})
	require.NoError(t, err)

	activated, err := client.ChangeSensorActivation(ctx, &ChangeSensorActivationRequest{SensorID: "front", Active: true})
	require.NoError(t, err)
	require.True(t, activated.Sensor.Active)
	require.Equal(t, "PENDING_ALARM", activated.AlarmStatus)

	_, err = client.ChangeSensorActivation(ctx, &ChangeSensorActivationRequest{SensorID: "back", Active: true})
	require.Equal(t, codes.NotFound, status.Code(err))

	deactivated, err := client.ChangeSensorActivation(ctx, &ChangeSensorActivationRequest{SensorID: "front"})
	require.NoError(t, err)
	require.Equal(t, "NO_ALARM", deactivated.AlarmStatus)

	classified, err := client.ProcessImage(ctx, &ProcessImageRequest{Image: encodedImage(t)})
	require.NoError(t, err)
	require.False(t, classified.CatDetected)

	list, err := client.ListSensors(ctx, new(ListSensorsRequest))
	require.NoError(t, err)
	require.Len(t, list.Sensors, 1)

	removed, err := client.RemoveSensor(ctx, &RemoveSensorRequest{SensorID: "front"})
	require.NoError(t, err)
	require.Empty(t, removed.Sensors)
	require.Equal(t, "ARMED_AWAY", removed.ArmingStatus)
}

// TestServer_PanicRecovery turns a handler panic into an Internal error.
func TestServer_PanicRecovery(t *testing.T) {
	t.Parallel()

	client := dialBufconn(t, NewServer(&fakeService{panics: true}))

	_, err := client.GetStatus(context.Background(), new(GetStatusRequest))
	require.Equal(t, codes.Internal, status.Code(err))
}

// TestActorFromContext reads the caller identity from incoming metadata.
func TestActorFromContext(t *testing.T) {
	t.Parallel()

	require.Empty(t, actorFromContext(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(ActorMetadataKey, "alice@hall"))
	require.Equal(t, "alice@hall", actorFromContext(ctx))

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "x"))
	require.Empty(t, actorFromContext(ctx))
}

// paddedImage returns a valid PNG followed by filler up to size bytes.
// The PNG decoder stops at the IEND chunk and ignores the filler.
func paddedImage(t *testing.T, size int) []byte {
	t.Helper()

	data := encodedImage(t)
	require.Less(t, len(data), size)

	return append(data, make([]byte, size-len(data))...)
}

// TestServer_LargeImage accepts images up to MaxImageSize over the wire and
// rejects larger ones as invalid input rather than at the transport.
func TestServer_LargeImage(t *testing.T) {
	t.Parallel()

	client := dialBufconn(t, NewServer(&fakeService{snapshot: new(domain.Snapshot)}))
	ctx := context.Background()

	resp, err := client.ProcessImage(ctx, &ProcessImageRequest{Image: paddedImage(t, imaging.MaxImageSize-1)})
	require.NoError(t, err)
	require.True(t, resp.CatDetected)

	_, err = client.ProcessImage(ctx, &ProcessImageRequest{Image: paddedImage(t, imaging.MaxImageSize+1)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Contains(t, err.Error(), imaging.ErrImageTooLarge.Error())
}
