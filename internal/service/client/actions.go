package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/imaging"
)

// ShowStatus prints the arming status, alarm status and sensors.
func ShowStatus() Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		resp, err := api.Status(ctx)
		if err != nil {
			return err
		}

		return writeStatus(out, resp)
	}
}

// SetArmingStatus changes the arming status and prints the result.
func SetArmingStatus(arming domain.ArmingStatus) Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		resp, err := api.SetArmingStatus(ctx, arming)
		if err != nil {
			return err
		}

		return writeStatus(out, resp)
	}
}

// AddSensor registers a sensor and prints it.
func AddSensor(id, name string, sensorType domain.SensorType) Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		resp, err := api.AddSensor(ctx, id, name, sensorType)
		if err != nil {
			return err
		}

		return writeSensorResponse(out, resp)
	}
}

// RemoveSensor deletes a sensor and prints the remaining state.
func RemoveSensor(sensorID string) Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		resp, err := api.RemoveSensor(ctx, sensorID)
		if err != nil {
			return err
		}

		return writeStatus(out, resp)
	}
}

// ChangeSensorActivation activates or deactivates a sensor and prints it.
func ChangeSensorActivation(sensorID string, active bool) Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		resp, err := api.ChangeSensorActivation(ctx, sensorID, active)
		if err != nil {
			return err
		}

		return writeSensorResponse(out, resp)
	}
}

// ListSensors prints every sensor.
func ListSensors() Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		sensors, err := api.ListSensors(ctx)
		if err != nil {
			return err
		}

		return writeSensors(out, sensors)
	}
}

// ProcessImage submits the image file for cat detection.
func ProcessImage(path string) Action {
	return func(ctx context.Context, api API, out io.Writer) error {
		data, err := imaging.ReadFile(path)
		if err != nil {
			return err
		}

		resp, err := api.ProcessImage(ctx, data)
		if err != nil {
			return err
		}

		verdict := "no cat"
		if resp.CatDetected {
			verdict = "cat detected"
		}

		_, err = fmt.Fprintf(out, "Image: %s\nAlarm status: %s\n", verdict, resp.AlarmStatus)

		return err
	}
}

func writeStatus(out io.Writer, resp *grpcapi.StatusResponse) error {
	if _, err := fmt.Fprintf(out, "Arming status: %s\nAlarm status: %s\n",
		resp.ArmingStatus, resp.AlarmStatus); err != nil {
		return err
	}

	return writeSensors(out, resp.Sensors)
}

func writeSensorResponse(out io.Writer, resp *grpcapi.SensorResponse) error {
	if err := writeSensors(out, []*grpcapi.Sensor{resp.Sensor}); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "Alarm status: %s\n", resp.AlarmStatus)

	return err
}

// writeSensors prints sensors as an aligned table.
func writeSensors(out io.Writer, sensors []*grpcapi.Sensor) error {
	if len(sensors) == 0 {
		_, err := fmt.Fprintln(out, "No sensors")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE")

	for _, sensor := range sensors {
		if sensor == nil {
			continue
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			sensor.ID, sensor.Name, strings.ToLower(sensor.Type), activity(sensor.Active))
	}

	return w.Flush()
}

func activity(active bool) string {
	if active {
		return "active"
	}

	return "inactive"
}
