package client

import (
	"context"
	"io"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/service/common"
)

// Options configures how a CLI command reaches the security server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Wait keeps retrying while the server is unavailable.
	Wait bool

	// Output receives the command result, os.Stdout when nil.
	Output io.Writer
}

// API is the subset of the security client used by commands.
type API interface {
	Status(ctx context.Context) (*grpcapi.StatusResponse, error)
	SetArmingStatus(ctx context.Context, arming domain.ArmingStatus) (*grpcapi.StatusResponse, error)
	ChangeSensorActivation(ctx context.Context, sensorID string, active bool) (*grpcapi.SensorResponse, error)
	AddSensor(ctx context.Context, id, name string, sensorType domain.SensorType) (*grpcapi.SensorResponse, error)
	RemoveSensor(ctx context.Context, sensorID string) (*grpcapi.StatusResponse, error)
	ListSensors(ctx context.Context) ([]*grpcapi.Sensor, error)
	ProcessImage(ctx context.Context, image []byte) (*grpcapi.ProcessImageResponse, error)
}

// Action is a single CLI operation against the security server.
type Action func(ctx context.Context, api API, out io.Writer) error

// defaultRetryInterval defines retry delay while the server is unavailable.
const defaultRetryInterval = 1 * time.Second

// Run connects to the security server and performs the action.
func Run(ctx context.Context, opts *Options, action Action) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "catpoint")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// Identify current user and hostname for the server logs.
	if actor, err := common.DetectActor(); err == nil {
		dialOptions = append(dialOptions, common.WithActor(actor))
	} else {
		logger.WarnKV(ctx, "Cannot detect actor", "error", err)
	}

	client, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger.DebugKV(ctx, "Connected to security server", "server_address", serverAddress)

	return execute(ctx, client, out, action, opts.Wait, defaultRetryInterval)
}

// execute runs the action once or, when wait is set, until the server
// stops reporting itself unavailable.
func execute(ctx context.Context, api API, out io.Writer, action Action, wait bool, interval time.Duration) error {
	// attempt tries once, returns (completed, error).
	attempt := func() (bool, error) {
		err := action(ctx, api, out)
		if err == nil {
			return true, nil
		}

		if wait && status.Code(err) == codes.Unavailable {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "Security server unavailable", "error", err)

			return false, nil
		}

		return false, err
	}

	// Attempt immediately before starting retry loop.
	if done, err := attempt(); err != nil || done {
		return err
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Retry loop until success or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := attempt()
			if err != nil || done {
				return err
			}
		}
	}
}
