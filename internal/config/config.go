// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// APIURL is the base URL of the gateway admin API.
	APIURL string
	// APIToken is the bearer token sent on every request; empty disables auth.
	APIToken string
	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration
	// MetricsRefreshInterval is the background metrics poll cadence.
	MetricsRefreshInterval time.Duration
	// MetricsWindowHours is the default dashboard aggregation window.
	MetricsWindowHours int
	// ErrorRateThreshold triggers a desktop notification when crossed upward.
	ErrorRateThreshold float64
	// DatabasePath locates the local metric snapshot store.
	DatabasePath string
	// ExportDir receives exported log documents.
	ExportDir string
	// LogFile receives diagnostic logging; the terminal belongs to the TUI.
	LogFile string
	// EnvFile is the env file Load consumed, empty when none was found.
	// The service manager watches it for live reloads.
	EnvFile string
}

// Default values
const (
	defaultAPIURL                 = "http://localhost:7070"
	defaultRequestTimeout         = 30 * time.Second
	defaultMetricsRefreshInterval = 60 * time.Second
	defaultMetricsWindowHours     = 24
	defaultErrorRateThreshold     = 0.25
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	var envFile string
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			envFile = path
			break
		}
	}

	cfg := &Config{
		APIURL:                 strings.TrimRight(getEnvString("MGC_API_URL", defaultAPIURL), "/"),
		APIToken:               getEnvString("MGC_API_TOKEN", ""),
		RequestTimeout:         getEnvDuration("MGC_REQUEST_TIMEOUT", defaultRequestTimeout),
		MetricsRefreshInterval: getEnvDuration("MGC_METRICS_REFRESH_INTERVAL", defaultMetricsRefreshInterval),
		MetricsWindowHours:     getEnvInt("MGC_METRICS_WINDOW_HOURS", defaultMetricsWindowHours),
		ErrorRateThreshold:     getEnvFloat("MGC_ERROR_RATE_THRESHOLD", defaultErrorRateThreshold),
		DatabasePath:           getEnvString("MGC_DATABASE_PATH", getDefaultDatabasePath()),
		ExportDir:              getEnvString("MGC_EXPORT_DIR", "."),
		LogFile:                getEnvString("MGC_LOG_FILE", getDefaultLogPath()),
		EnvFile:                envFile,
	}

	if cfg.ErrorRateThreshold < 0 || cfg.ErrorRateThreshold > 1 {
		cfg.ErrorRateThreshold = defaultErrorRateThreshold
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure export directory exists
	if err := ensureDir(cfg.ExportDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory location
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "modelgate-console", "config.env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "console.db"
	}
	return filepath.Join(home, ".config", "modelgate-console", "console.db")
}

// getDefaultLogPath returns the default path for the diagnostic log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "console.log"
	}
	return filepath.Join(home, ".config", "modelgate-console", "console.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
