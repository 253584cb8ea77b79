package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/monitor"
	"github.com/oshokin/catpoint/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// onAlarm is the shell command run when the alarm is raised.
	onAlarm string
	// pollInterval is the delay between status checks.
	pollInterval = monitor.DefaultPollInterval

	// rootCmd represents the base command for polling the alarm status.
	rootCmd = &cobra.Command{
		Use:   "catpoint-monitor [server-address]",
		Short: "Watch the alarm status and react when the alarm is raised.",
		Long: `Background service that monitors the catpoint alarm status.

Polls the server at a fixed interval and logs every alarm status transition.
When the alarm is raised the --on-alarm command is run through the system shell
with CATPOINT_ALARM_STATUS set, for example to sound a siren.
Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return monitor.Run(ctx, &monitor.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				PollInterval:  pollInterval,
				OnAlarm:       onAlarm,
			})
		},
	}
)

// Execute runs the catpoint-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&onAlarm, "on-alarm", "", "shell command to run when the alarm is raised")
	rootCmd.Flags().DurationVarP(&pollInterval, "interval", "i", monitor.DefaultPollInterval, "polling interval")
}
