package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	httpapi "github.com/oshokin/catpoint/internal/api/http/status"
	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/events"
	"github.com/oshokin/catpoint/internal/imaging"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/service/security"
)

// Options controls the catpoint-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StateFile overrides the storage path from the configuration.
	StateFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the servers and blocks until context is canceled or a server stops.
// Loads configuration first, then determines listen address from config or override.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "catpoint-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel, settings.LogFormat); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	// Storage path from config unless overridden by command line option.
	if opts.StateFile != "" {
		settings.Storage.Path = opts.StateFile
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repository, closeRepository, err := openRepository(ctx, settings.Storage)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	defer func() {
		if closeErr := closeRepository(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close repository", "error", closeErr)
		}
	}()

	svc := security.NewService(repository, imaging.NewFakeClassifier(nil))
	svc.AddStatusListener(security.LogListener{})

	if settings.NATSURL != "" {
		publisher, err := events.Connect(ctx, settings.NATSURL)
		if err != nil {
			return fmt.Errorf("connect event bus: %w", err)
		}

		defer publisher.Close()

		svc.AddStatusListener(publisher)
	}

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with security service.
	grpcServer := grpcapi.NewGRPCServer(ctx)
	grpcapi.RegisterSecurityServiceServer(grpcServer, grpcapi.NewServer(svc))

	logger.InfoKV(ctx, "Security server listening",
		"listen_address", listenAddress,
		"storage", settings.Storage.Driver,
		"storage_path", settings.Storage.Path,
	)

	// Stop everything when either server fails.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		httpErr error
	)

	if settings.HTTPAddress != "" {
		httpListener, err := lc.Listen(ctx, "tcp", settings.HTTPAddress)
		if err != nil {
			_ = lis.Close()

			return fmt.Errorf("listen on %s: %w", settings.HTTPAddress, err)
		}

		wg.Go(func() {
			httpErr = httpapi.Serve(ctx, httpListener, httpapi.NewHandler(svc))
			if httpErr != nil {
				cancel()
			}
		})
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		cancel()
		wg.Wait()

		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	wg.Wait()
	logger.Info(ctx, "Servers stopped")

	return httpErr
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Port-only listen address binds on all interfaces.
	return ":" + port, nil
}
