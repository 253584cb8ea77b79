package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/setup"
)

var (
	// initSettings collects the values written by `init`.
	initSettings config.Config
	// overwrite allows replacing an existing settings file.
	overwrite bool
	// verify checks the server after saving.
	verify bool

	initCmd = &cobra.Command{
		Use:   "init <server-address>",
		Short: "Write a settings file for the server and the CLI.",
		Long: `Validates and saves a catpoint settings file.

Storage defaults to a JSON state file; use --storage sqlite for a database or
--storage memory for an ephemeral controller. With --verify the command also
checks that a server is answering on the saved address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			initSettings.ServerAddress = args[0]

			_, err := setup.Run(ctx, &setup.Options{
				ConfigPath: cfgPath,
				Settings:   initSettings,
				Overwrite:  overwrite,
				Verify:     verify,
			})

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := initCmd.Flags()
	flags.StringVar(&initSettings.HTTPAddress, "http", "", "listen address of the HTTP status API")
	flags.StringVar(&initSettings.Storage.Driver, "storage", config.StorageFile, "storage driver: memory, file or sqlite")
	flags.StringVar(&initSettings.Storage.Path, "storage-path", "", "state file or sqlite database path")
	flags.StringVar(&initSettings.NATSURL, "nats", "", "NATS URL for status events")
	flags.StringVar(&initSettings.LogLevel, "log-level", config.DefaultLogLevel, "log level")
	flags.StringVar(&initSettings.LogFormat, "log-format", config.DefaultLogFormat, "log format: console or json")
	flags.DurationVar(&initSettings.Timeout, "timeout", config.DefaultTimeout, "network timeout")
	flags.BoolVar(&overwrite, "force", false, "overwrite an existing settings file")
	flags.BoolVar(&verify, "verify", false, "check that the server answers")
}
