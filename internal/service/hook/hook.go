package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedOS indicates the current OS has no known shell.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// ErrEmptyCommand is returned when no command is configured.
var ErrEmptyCommand = errors.New("hook command is empty")

// EnvAlarmStatus carries the alarm status into the hook environment.
const EnvAlarmStatus = "CATPOINT_ALARM_STATUS"

// Run executes command with the platform shell and waits for it to finish:
// - Linux/macOS: `sh -c <command>`
// - Windows:     `cmd.exe /C <command>`
// The alarm status is exported as CATPOINT_ALARM_STATUS.
func Run(ctx context.Context, command, alarmStatus string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrEmptyCommand
	}

	cmd, err := shellCommand(ctx, command)
	if err != nil {
		return err
	}

	cmd.Env = append(os.Environ(), EnvAlarmStatus+"="+alarmStatus)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run hook: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func shellCommand(ctx context.Context, command string) (*exec.Cmd, error) {
	osName := strings.ToLower(runtime.GOOS)

	switch {
	case strings.Contains(osName, "linux") || strings.Contains(osName, "darwin"):
		return exec.CommandContext(ctx, "sh", "-c", command), nil
	case strings.Contains(osName, "windows"):
		return exec.CommandContext(ctx, "cmd.exe", "/C", command), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}
