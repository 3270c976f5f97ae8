package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"planerly/internal/logging"
	"planerly/internal/persistence"
	"planerly/internal/repository/natskv"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Config holds all configuration options for the planner
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Display     DisplayConfig     `toml:"display"`
	Logging     LoggingConfig     `toml:"logging"`
	Application ApplicationConfig `toml:"application"`
	Server      ServerConfig      `toml:"server"`
}

// StorageConfig selects and configures the key/value backend
type StorageConfig struct {
	Backend        string `toml:"backend" env:"PL_STORAGE_BACKEND"`
	Dir            string `toml:"dir" env:"PL_DATA_DIR"`
	Filename       string `toml:"filename" env:"PL_DB_FILENAME"`
	Key            string `toml:"key" env:"PL_STORAGE_KEY"`
	NATSURL        string `toml:"nats_url" env:"PL_NATS_URL"`
	NATSBucket     string `toml:"nats_bucket" env:"PL_NATS_BUCKET"`
	DirPermissions uint32 `toml:"dir_permissions" env:"PL_DATA_DIR_PERMISSIONS"`
}

// DisplayConfig holds rendering options
type DisplayConfig struct {
	AppName         string        `toml:"app_name" env:"PL_APP_NAME"`
	RefreshInterval time.Duration `toml:"refresh_interval" env:"PL_REFRESH_INTERVAL"`
}

// LoggingConfig holds logger options
type LoggingConfig struct {
	Level  string `toml:"level" env:"PL_LOG_LEVEL"`
	Format string `toml:"format" env:"PL_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `toml:"timeout" env:"PL_APP_TIMEOUT"`
	Verbose bool          `toml:"verbose" env:"PL_APP_VERBOSE"`
}

// ServerConfig holds the HTTP front end options
type ServerConfig struct {
	Addr           string   `toml:"addr" env:"PL_SERVER_ADDR"`
	AllowedOrigins []string `toml:"allowed_origins" env:"PL_ALLOWED_ORIGINS"`
}

// DefaultDataDir returns ~/.planerly, or .planerly when the home directory is unknown
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".planerly"
	}
	return filepath.Join(homeDir, ".planerly")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            DefaultDataDir(),
			Filename:       "planerly.db",
			Key:            persistence.DefaultKey,
			NATSURL:        "nats://127.0.0.1:4222",
			NATSBucket:     natskv.DefaultBucket,
			DirPermissions: 0755,
		},
		Display: DisplayConfig{
			AppName:         "Planerly",
			RefreshInterval: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// LoggerOptions converts the logging section into logger options
func (c *Config) LoggerOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	if c.Application.Verbose {
		opts.Level = "debug"
	}
	return opts
}

// LoadFromFile overlays the values set in a TOML file
func (c *Config) LoadFromFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return &ConfigError{Field: "file", Message: err.Error()}
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("PL_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("PL_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("PL_DB_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if key := os.Getenv("PL_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if url := os.Getenv("PL_NATS_URL"); url != "" {
		c.Storage.NATSURL = url
	}
	if bucket := os.Getenv("PL_NATS_BUCKET"); bucket != "" {
		c.Storage.NATSBucket = bucket
	}
	if perms := os.Getenv("PL_DATA_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Display configuration
	if name := os.Getenv("PL_APP_NAME"); name != "" {
		c.Display.AppName = name
	}
	if interval := os.Getenv("PL_REFRESH_INTERVAL"); interval != "" {
		c.Display.RefreshInterval = ParseDurationWithFallback(interval, c.Display.RefreshInterval)
	}

	// Logging configuration
	if level := os.Getenv("PL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("PL_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	// Application configuration
	if timeout := os.Getenv("PL_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("PL_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Server configuration
	if addr := os.Getenv("PL_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if origins := os.Getenv("PL_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
		if c.Storage.Dir == "" {
			return &ConfigError{Field: "storage.dir", Message: "data directory cannot be empty"}
		}
	case BackendNATS:
		if c.Storage.NATSURL == "" {
			return &ConfigError{Field: "storage.nats_url", Message: "NATS URL cannot be empty"}
		}
	case BackendMemory:
	default:
		return &ConfigError{Field: "storage.backend", Message: "backend must be one of sqlite, file, memory, nats"}
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "database filename cannot be empty"}
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return &ConfigError{Field: "storage.key", Message: "storage key cannot be empty"}
	}

	// Validate display configuration
	if c.Display.AppName == "" {
		return &ConfigError{Field: "display.app_name", Message: "application name cannot be empty"}
	}
	if c.Display.RefreshInterval < time.Second {
		return &ConfigError{Field: "display.refresh_interval", Message: "refresh interval must be at least 1s"}
	}

	// Validate logging configuration
	if !logging.ValidLevel(c.Logging.Level) {
		return &ConfigError{Field: "logging.level", Message: "level must be one of debug, info, warn, error"}
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "format must be one of text, json, logfmt"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
