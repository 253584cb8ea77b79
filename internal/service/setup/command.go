package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/service/common"
)

// Options contains inputs for the setup entry point.
type Options struct {
	// ConfigPath is the settings file to write (defaults to catpoint-settings.yaml).
	ConfigPath string
	// Settings holds the values to save; defaults are filled in.
	Settings config.Config
	// Overwrite allows replacing an existing settings file.
	Overwrite bool
	// Verify checks that the server is reachable after saving.
	Verify bool
}

// ErrConfigExists indicates the settings file is already present.
var ErrConfigExists = errors.New("settings file already exists")

// Run validates, saves and optionally verifies the settings.
func Run(ctx context.Context, opts *Options) (*config.Config, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "catpoint-setup")

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	settings := opts.Settings
	if err := config.Validate(&settings); err != nil {
		return nil, err
	}

	if err := config.Save(path, &settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	logger.InfoKV(ctx, "Settings saved", "path", path)

	if opts.Verify {
		if err := ensureServerReachable(ctx, &settings); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, nextSteps(path, &settings))

	return &settings, nil
}

// nextSteps renders human-readable guidance for the saved settings.
func nextSteps(path string, settings *config.Config) string {
	var builder strings.Builder

	builder.WriteString("Start the controller with: catpoint-server --config ")
	builder.WriteString(path)
	builder.WriteString("\nState is kept by the ")
	builder.WriteString(settings.Storage.Driver)
	builder.WriteString(" storage")

	if settings.Storage.Path != "" {
		builder.WriteString(" at ")
		builder.WriteString(settings.Storage.Path)
	}

	if settings.HTTPAddress != "" {
		builder.WriteString("\nStatus API: http://")
		builder.WriteString(settings.HTTPAddress)
		builder.WriteString("/v1/status")
	}

	builder.WriteString("\nControl it with: catpoint --config ")
	builder.WriteString(path)
	builder.WriteString(" status")

	return builder.String()
}

// ensureServerReachable verifies that the server answers a status request.
func ensureServerReachable(ctx context.Context, settings *config.Config) error {
	client, err := common.Dial(ctx, settings.ServerAddress, common.WithCallTimeout(settings.Timeout))
	if err != nil {
		return err
	}

	// Best-effort cleanup.
	defer func() {
		_ = client.Close()
	}()

	if _, err = client.Status(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Verified connection to security server", "server_address", settings.ServerAddress)

	return nil
}
