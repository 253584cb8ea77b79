package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the catpoint binaries.
type Config struct {
	// ServerAddress is the gRPC address of the security service.
	ServerAddress string `yaml:"server_addr"`
	// HTTPAddress is the listen address of the read-only status API.
	// Empty disables the HTTP API.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format,omitempty"`
	// Storage selects where sensors and statuses are persisted.
	Storage Storage `yaml:"storage"`
	// NATSURL enables publishing of status events when set.
	NATSURL string `yaml:"nats_url,omitempty"`
}

// Storage describes the repository backend.
type Storage struct {
	// Driver is one of StorageMemory, StorageFile or StorageSQLite.
	Driver string `yaml:"driver"`
	// Path is the JSON state file or the sqlite DSN.
	Path string `yaml:"path,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "catpoint-settings.yaml"

	// DefaultEnvFilename is the optional dotenv file read before env overrides.
	DefaultEnvFilename = ".env"

	// DefaultStateFilename is the default filename for the JSON state file.
	DefaultStateFilename = "catpoint-state.json"

	// DefaultDatabaseFilename is the default sqlite database file.
	DefaultDatabaseFilename = "catpoint.db"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the human readable console format.
	DefaultLogFormat = "console"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Environment variables that override file settings.
const (
	EnvServerAddress = "CATPOINT_SERVER_ADDR"
	EnvHTTPAddress   = "CATPOINT_HTTP_ADDR"
	EnvTimeout       = "CATPOINT_TIMEOUT"
	EnvLogLevel      = "CATPOINT_LOG_LEVEL"
	EnvLogFormat     = "CATPOINT_LOG_FORMAT"
	EnvStorageDriver = "CATPOINT_STORAGE_DRIVER"
	EnvStoragePath   = "CATPOINT_STORAGE_PATH"
	EnvNATSURL       = "CATPOINT_NATS_URL"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnknownStorageDriver is returned for an unsupported storage driver.
	errUnknownStorageDriver = errors.New("unknown storage driver")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := LoadEnvFile(DefaultEnvFilename); err != nil {
		return nil, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file without overriding variables
// that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overrides settings with CATPOINT_* environment variables.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	overrides := map[string]*string{
		EnvServerAddress: &cfg.ServerAddress,
		EnvHTTPAddress:   &cfg.HTTPAddress,
		EnvLogLevel:      &cfg.LogLevel,
		EnvLogFormat:     &cfg.LogFormat,
		EnvStorageDriver: &cfg.Storage.Driver,
		EnvStoragePath:   &cfg.Storage.Path,
		EnvNATSURL:       &cfg.NATSURL,
	}

	for key, target := range overrides {
		if value, ok := os.LookupEnv(key); ok {
			*target = value
		}
	}

	if value, ok := os.LookupEnv(EnvTimeout); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}

		cfg.Timeout = timeout
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for optional ones.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, _, err := net.SplitHostPort(settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid http address: %w", err)
		}
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.LogFormat == "" {
		settings.LogFormat = DefaultLogFormat
	}

	return validateStorage(&settings.Storage)
}

func validateStorage(storage *Storage) error {
	storage.Driver = strings.ToLower(strings.TrimSpace(storage.Driver))
	if storage.Driver == "" {
		storage.Driver = StorageFile
	}

	if !slices.Contains([]string{StorageMemory, StorageFile, StorageSQLite}, storage.Driver) {
		return fmt.Errorf("%w: %q", errUnknownStorageDriver, storage.Driver)
	}

	if storage.Path != "" {
		return nil
	}

	switch storage.Driver {
	case StorageFile:
		storage.Path = DefaultStateFilename
	case StorageSQLite:
		storage.Path = DefaultDatabaseFilename
	}

	return nil
}
