package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/catpoint/internal/config"
	"github.com/oshokin/catpoint/internal/service/client"
	"github.com/oshokin/catpoint/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from the configuration.
	serverAddress string
	// wait keeps retrying while the server is unavailable.
	wait bool

	// rootCmd represents the base command of the catpoint CLI.
	rootCmd = &cobra.Command{
		Use:   "catpoint",
		Short: "Control the catpoint home security controller.",
		Long: `Sends commands to the catpoint security server.

Arm or disarm the system, manage sensors, report sensor activity and submit
camera images for cat detection. Every command prints the resulting state.
Server address is loaded from configuration file unless --server is given.`,
		SilenceUsage: true,
	}
)

// Execute runs the catpoint CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run executes the action with the global flags and graceful cancellation.
func run(action client.Action) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return client.Run(ctx, &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Wait:          wait,
		Output:        rootCmd.OutOrStdout(),
	}, action)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "a", "", "server address, overrides server_addr")
	rootCmd.PersistentFlags().
		BoolVarP(&wait, "wait", "w", false, "keep retrying while the server is unavailable")

	rootCmd.AddCommand(initCmd, statusCmd, armCmd, disarmCmd, sensorCmd, imageCmd)
}
