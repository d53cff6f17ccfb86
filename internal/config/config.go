package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"edadash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Session   SessionConfig
	Charts    ChartConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// DataConfig holds ingestion settings
type DataConfig struct {
	DefaultDatasetPath      string
	DefaultDatasetSeparator string
	MaxUploadBytes          int64
	MaxConcurrentUploads    int64
	PreviewRows             int
}

// SessionConfig holds the in-memory session store settings
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// ChartConfig holds the chart dispatcher settings
type ChartConfig struct {
	CardinalityLimit int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Session:   *loadSessionConfig(),
		Charts:    *loadChartConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		CORSOrigins: getEnvListOrDefault("CORS_ORIGINS", nil),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		DefaultDatasetPath:      getEnvOrDefault("DEFAULT_DATASET_PATH", "data/bank.csv"),
		DefaultDatasetSeparator: getEnvOrDefault("DEFAULT_DATASET_SEPARATOR", ";"),
		MaxUploadBytes:          int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) << 20,
		MaxConcurrentUploads:    int64(getEnvIntOrDefault("MAX_CONCURRENT_UPLOADS", 2)),
		PreviewRows:             getEnvIntOrDefault("PREVIEW_ROWS", 5),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		CookieName: getEnvOrDefault("SESSION_COOKIE", "eda_session"),
		TTL:        getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		CardinalityLimit: getEnvIntOrDefault("CARDINALITY_LIMIT", 12),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("server port must be numeric")
	}
	if len([]rune(config.Data.DefaultDatasetSeparator)) != 1 {
		return errors.ConfigInvalid("default dataset separator must be a single character")
	}
	if config.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Data.MaxConcurrentUploads <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_UPLOADS must be positive")
	}
	if config.Charts.CardinalityLimit <= 0 {
		return errors.ConfigInvalid("CARDINALITY_LIMIT must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
