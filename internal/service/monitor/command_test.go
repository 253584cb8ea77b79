package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	domain "github.com/oshokin/catpoint/internal/domain/security"
)

var errUnavailable = errors.New("server unavailable")

// scriptedStatus returns the queued alarm statuses in order.
type scriptedStatus struct {
	statuses []string
	err      error
}

func (s *scriptedStatus) Status(context.Context) (*grpcapi.StatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}

	current := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}

	return &grpcapi.StatusResponse{ArmingStatus: domain.ArmedHome.String(), AlarmStatus: current}, nil
}

// hookCalls records hook invocations.
type hookCalls struct {
	statuses []string
}

func (h *hookCalls) run(_ context.Context, _ string, alarmStatus string) error {
	h.statuses = append(h.statuses, alarmStatus)
	return nil
}

// TestWatcher_RunsHookOncePerAlarm fires the hook only when ALARM is entered.
func TestWatcher_RunsHookOncePerAlarm(t *testing.T) {
	t.Parallel()

	hooks := new(hookCalls)
	w := &watcher{
		client: &scriptedStatus{statuses: []string{
			"NO_ALARM", "PENDING_ALARM", "ALARM", "ALARM", "NO_ALARM", "ALARM",
		}},
		onAlarm: "siren",
		runHook: hooks.run,
	}

	for range 6 {
		require.NoError(t, w.checkState(context.Background()))
	}

	require.Equal(t, []string{"ALARM", "ALARM"}, hooks.statuses)
}

// TestWatcher_NoHookConfigured only tracks the status.
func TestWatcher_NoHookConfigured(t *testing.T) {
	t.Parallel()

	hooks := new(hookCalls)
	w := &watcher{
		client:  &scriptedStatus{statuses: []string{"ALARM"}},
		runHook: hooks.run,
	}

	require.NoError(t, w.checkState(context.Background()))
	require.Empty(t, hooks.statuses)
	require.Equal(t, domain.Alarm, *w.last)
}

// TestWatcher_Errors surfaces poll and parse failures.
func TestWatcher_Errors(t *testing.T) {
	t.Parallel()

	w := &watcher{client: &scriptedStatus{err: errUnavailable}}
	require.ErrorIs(t, w.checkState(context.Background()), errUnavailable)
	require.Nil(t, w.last)

	w = &watcher{client: &scriptedStatus{statuses: []string{"ON_FIRE"}}}
	require.ErrorIs(t, w.checkState(context.Background()), domain.ErrUnknownAlarmStatus)
}

// TestWatcher_LoopStopsOnCancel returns nil once the context is done.
func TestWatcher_LoopStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	w := &watcher{client: &scriptedStatus{err: errUnavailable}}
	require.NoError(t, w.loop(ctx, 5*time.Millisecond))
}

// TestWatcher_AlarmAtStartup skips the hook for an alarm raised before the
// first poll and fires it on the next transition into ALARM.
func TestWatcher_AlarmAtStartup(t *testing.T) {
	t.Parallel()

	hooks := new(hookCalls)
	w := &watcher{
		client:  &scriptedStatus{statuses: []string{"ALARM", "ALARM", "NO_ALARM", "ALARM"}},
		onAlarm: "siren",
		runHook: hooks.run,
	}

	for range 2 {
		require.NoError(t, w.checkState(context.Background()))
	}

	require.Empty(t, hooks.statuses)

	for range 2 {
		require.NoError(t, w.checkState(context.Background()))
	}

	require.Equal(t, []string{"ALARM"}, hooks.statuses)
}
