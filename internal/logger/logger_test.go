package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"Warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestConfigure rejects unknown level names.
func TestConfigure(t *testing.T) {
	t.Parallel()

	require.Error(t, Configure("loud", ""))
	require.Error(t, Configure("info", "xml"))
}

// TestParseFormat normalizes format names.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]string{"": FormatConsole, "Console": FormatConsole, " json ": FormatJSON} {
		got, ok := ParseFormat(input)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := ParseFormat("logfmt")
	require.False(t, ok)
}

// TestNewJSON writes one JSON object per entry.
func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := newWithSink(FormatJSON, zapcore.DebugLevel, zapcore.AddSync(&buf)).Named("catpoint")
	l.Infow("Alarm status changed", "alarm_status", "ALARM")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "catpoint", entry["logger"])
	require.Equal(t, "Alarm status changed", entry["message"])
	require.Equal(t, "ALARM", entry["alarm_status"])
}

// TestContextLogger checks that names and fields travel with the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "security")
	ctx = WithKV(ctx, "sensor_id", "s1")

	InfoKV(ctx, "Sensor activated", "active", true)
	DebugKV(ctx, "Sensor details")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "security", entries[0].LoggerName)
	require.Equal(t, "Sensor activated", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "s1", fields["sensor_id"])
	require.Equal(t, true, fields["active"])

	require.Same(t, Logger(), FromContext(context.Background()))
}
