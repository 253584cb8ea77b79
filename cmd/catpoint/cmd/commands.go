package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/service/client"
)

var (
	// sensorID is the optional id of a new sensor.
	sensorID string
	// sensorType is the type of a new sensor.
	sensorType string

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show arming status, alarm status and sensors.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(client.ShowStatus())
		},
	}

	armCmd = &cobra.Command{
		Use:       "arm <home|away>",
		Short:     "Arm the system and reset all sensors.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"home", "away"},
		RunE: func(_ *cobra.Command, args []string) error {
			arming, err := domain.ParseArmingStatus("armed_" + args[0])
			if err != nil {
				return err
			}

			return run(client.SetArmingStatus(arming))
		},
	}

	disarmCmd = &cobra.Command{
		Use:   "disarm",
		Short: "Disarm the system and clear the alarm.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(client.SetArmingStatus(domain.Disarmed))
		},
	}

	sensorCmd = &cobra.Command{
		Use:   "sensor",
		Short: "Manage sensors and report their activity.",
	}

	sensorAddCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Register a sensor.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			parsed, err := domain.ParseSensorType(sensorType)
			if err != nil {
				return err
			}

			return run(client.AddSensor(sensorID, args[0], parsed))
		},
	}

	sensorRemoveCmd = &cobra.Command{
		Use:   "remove <sensor-id>",
		Short: "Remove a sensor.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(client.RemoveSensor(args[0]))
		},
	}

	sensorActivateCmd = &cobra.Command{
		Use:   "activate <sensor-id>",
		Short: "Report that a sensor was triggered.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(client.ChangeSensorActivation(args[0], true))
		},
	}

	sensorDeactivateCmd = &cobra.Command{
		Use:   "deactivate <sensor-id>",
		Short: "Report that a sensor returned to rest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(client.ChangeSensorActivation(args[0], false))
		},
	}

	sensorListCmd = &cobra.Command{
		Use:   "list",
		Short: "List sensors.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(client.ListSensors())
		},
	}

	imageCmd = &cobra.Command{
		Use:   "image <file>",
		Short: "Submit a camera image (PNG, JPEG or GIF) for cat detection.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(client.ProcessImage(args[0]))
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	sensorAddCmd.Flags().StringVarP(&sensorType, "type", "t", "door", "sensor type: door, window or motion")
	sensorAddCmd.Flags().StringVar(&sensorID, "id", "", "sensor id, generated when empty")

	sensorCmd.AddCommand(sensorAddCmd, sensorRemoveCmd, sensorActivateCmd, sensorDeactivateCmd, sensorListCmd)
}
