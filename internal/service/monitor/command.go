package monitor

import (
	"context"
	"fmt"
	"time"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/service/common"
	"github.com/oshokin/catpoint/internal/service/hook"
)

// Options controls the monitor polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between status checks.
	PollInterval time.Duration
	// OnAlarm is a shell command run each time the alarm is raised.
	OnAlarm string
}

// DefaultPollInterval defines the default polling interval for status checks.
const DefaultPollInterval = 5 * time.Second

// statusReader is the part of the client used by the monitor.
type statusReader interface {
	Status(ctx context.Context) (*grpcapi.StatusResponse, error)
}

// hookRunner executes the alarm hook.
type hookRunner func(ctx context.Context, command, alarmStatus string) error

// watcher remembers the last observed alarm status between polls.
type watcher struct {
	client  statusReader
	onAlarm string
	runHook hookRunner

	// last is nil until the first successful poll.
	last *domain.AlarmStatus
}

// Run polls the alarm status until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "catpoint-monitor")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}
	if actor, err := common.DetectActor(); err == nil {
		dialOptions = append(dialOptions, common.WithActor(actor))
	}

	// Establish gRPC connection with timeout from configuration.
	client, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Polling alarm status", "server_address", serverAddress, "interval", interval.String())

	w := &watcher{
		client:  client,
		onAlarm: opts.OnAlarm,
		runHook: hook.Run,
	}

	return w.loop(ctx, interval)
}

// loop checks immediately and then on every tick.
func (w *watcher) loop(ctx context.Context, interval time.Duration) error {
	w.check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Main polling loop until context cancellation.
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check polls once, logging failures instead of stopping.
func (w *watcher) check(ctx context.Context) {
	if err := w.checkState(ctx); err != nil {
		logger.ErrorKV(ctx, "Check state failed", "error", err)
	}
}

// checkState retrieves the status, logs transitions and runs the hook when
// the alarm is entered between two polls.
func (w *watcher) checkState(ctx context.Context) error {
	state, err := w.client.Status(ctx)
	if err != nil {
		return err
	}

	current, err := domain.ParseAlarmStatus(state.AlarmStatus)
	if err != nil {
		return err
	}

	previous := w.last
	w.last = &current

	if previous != nil && *previous == current {
		logger.DebugKV(ctx, "Alarm status unchanged", "alarm_status", current.String())
		return nil
	}

	logger.InfoKV(ctx, "Alarm status",
		"alarm_status", current.String(),
		"arming_status", state.ArmingStatus,
	)

	if current != domain.Alarm || w.onAlarm == "" {
		return nil
	}

	// An alarm raised before the monitor started was already handled.
	if previous == nil {
		logger.Info(ctx, "Alarm already raised at startup, hook skipped")
		return nil
	}

	logger.Info(ctx, "Alarm raised, running hook")

	return w.runHook(ctx, w.onAlarm, current.String())
}
