package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by Configure.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	// global is the shared logger instance used throughout the application.
	//nolint:gochecknoglobals // Logger is used all over the project, so it's okay.
	global atomic.Pointer[zap.SugaredLogger]
	// defaultLevel is the minimum log level for messages to be processed.
	//nolint:gochecknoglobals // If the logging level is not set, the application will have no logs.
	defaultLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

	// formatMu guards currentFormat while the global logger is replaced.
	formatMu      sync.Mutex
	currentFormat = FormatConsole
)

func init() { //nolint:gochecknoinits // If the logging level is not set, the application will have no logs.
	SetLogger(New(FormatConsole, defaultLevel))
}

// New creates a *zap.SugaredLogger writing the given format to stdout.
// A nil level falls back to the shared atomic level.
func New(format string, level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	return newWithSink(format, level, zapcore.AddSync(os.Stdout), options...)
}

func newWithSink(
	format string,
	level zapcore.LevelEnabler,
	sink zapcore.WriteSyncer,
	options ...zap.Option,
) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	core := zapcore.NewCore(newEncoder(format), sink, level)

	return zap.New(core, options...).Sugar()
}

func newEncoder(format string) zapcore.Encoder {
	//nolint:exhaustruct // Default encoder configuration values are fine.
	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		MessageKey:     "message",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	if format == FormatJSON {
		config.EncodeLevel = zapcore.LowercaseLevelEncoder

		return zapcore.NewJSONEncoder(config)
	}

	config.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.ConsoleSeparator = ", "

	return zapcore.NewConsoleEncoder(config)
}

// ParseLogLevel converts string input to zap log level.
// "warning" is accepted as an alias of "warn".
func ParseLogLevel(s string) (zapcore.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}

	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// ParseFormat normalizes an output format name; empty means console.
func ParseFormat(s string) (string, bool) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", FormatConsole:
		return FormatConsole, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return "", false
	}
}

// Configure applies the level and output format to the global logger.
// The logger is only rebuilt when the format changes.
func Configure(level, format string) error {
	parsedLevel, ok := ParseLogLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	parsedFormat, ok := ParseFormat(format)
	if !ok {
		return fmt.Errorf("unknown log format %q", format)
	}

	formatMu.Lock()
	if parsedFormat != currentFormat {
		currentFormat = parsedFormat
		SetLogger(New(parsedFormat, defaultLevel))
	}
	formatMu.Unlock()

	SetLevel(parsedLevel)

	return nil
}

// Level returns the current logging level of the global logger.
func Level() zapcore.Level {
	return defaultLevel.Level()
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global.Load()
}

// SetLogger sets the global logger.
func SetLogger(l *zap.SugaredLogger) {
	global.Store(l)
}

// SetLevel sets the log level for the global logger.
func SetLevel(level zapcore.Level) {
	//nolint:errcheck // Sync on a console core may fail harmlessly.
	defer Logger().Sync()

	defaultLevel.SetLevel(level)
}

// DebugKV writes a message and key-value pairs
// at the debug level using the logger from the context.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// Info writes an information level message using the logger from the context.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// InfoKV writes a message and key-value pairs
// at the information level using the logger from the context.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// WarnKV writes a message and key-value pairs
// at the warning level using the logger from the context.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// ErrorKV writes a message and key-value pairs
// at the error level using the logger from the context.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}
