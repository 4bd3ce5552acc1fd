package config

import (
	"os"
	"strconv"

	"gotidy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Convert   ConvertConfig
	Profiling ProfilingConfig
	Report    ReportConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
	// MaxUploadRows caps how many records a single request body may carry.
	MaxUploadRows int
}

// ConvertConfig holds tidy-conversion defaults
type ConvertConfig struct {
	// Separator joins nested key paths into flat column names.
	Separator string
}

// ProfilingConfig holds dataset profiling settings
type ProfilingConfig struct {
	// Workers bounds concurrent per-column profiling.
	Workers int
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	// Dir is where the CLI writes rendered HTML reports.
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:          getEnvOrDefault("PORT", "8080"),
			MaxUploadRows: getEnvIntOrDefault("MAX_UPLOAD_ROWS", 100000),
		},
		Convert: ConvertConfig{
			Separator: getEnvOrDefault("TIDY_SEPARATOR", "."),
		},
		Profiling: ProfilingConfig{
			Workers: getEnvIntOrDefault("PROFILE_WORKERS", 4),
		},
		Report: ReportConfig{
			Dir: getEnvOrDefault("REPORT_DIR", "./reports"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Convert.Separator == "" {
		return errors.ConfigInvalid("tidy separator cannot be empty")
	}
	if config.Profiling.Workers < 1 {
		return errors.ConfigInvalid("profile workers must be at least 1")
	}
	if config.Server.MaxUploadRows < 1 {
		return errors.ConfigInvalid("max upload rows must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
