package config

import (
	"os"
	"strconv"

	"fieldprof/domain/profile"
	"fieldprof/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Profiler ProfilerConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// ProfilerConfig holds profiling thresholds and caps. Every value has a
// default, so an empty environment yields a working profiler.
type ProfilerConfig struct {
	MaxUniqueValues       int
	TypeThreshold         float64
	TemporalMinConfidence float64
	TemporalSampleSize    int
	OutlierValueCap       int
	MaxParallelFields     int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port       string
	ViewerPort string
	GinMode    string
}

// DatabaseConfig holds connection settings for the SQL dataset reader.
// Optional: only required when profiling a SQL source.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Profiler: loadProfilerConfig(),
		Server:   loadServerConfig(),
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadProfilerConfig() ProfilerConfig {
	defaults := profile.DefaultOptions()
	return ProfilerConfig{
		MaxUniqueValues:       getEnvIntOrDefault("PROFILER_MAX_UNIQUE_VALUES", defaults.MaxUniqueValues),
		TypeThreshold:         getEnvFloatOrDefault("PROFILER_TYPE_THRESHOLD", defaults.TypeThreshold),
		TemporalMinConfidence: getEnvFloatOrDefault("PROFILER_TEMPORAL_MIN_CONFIDENCE", defaults.TemporalMinConfidence),
		TemporalSampleSize:    getEnvIntOrDefault("PROFILER_TEMPORAL_SAMPLE_SIZE", defaults.TemporalSampleSize),
		OutlierValueCap:       getEnvIntOrDefault("PROFILER_OUTLIER_VALUE_CAP", defaults.OutlierValueCap),
		MaxParallelFields:     getEnvIntOrDefault("PROFILER_MAX_PARALLEL_FIELDS", defaults.MaxParallelFields),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:       getEnvOrDefault("PORT", "8080"),
		ViewerPort: getEnvOrDefault("VIEWER_PORT", "8081"),
		GinMode:    getEnvOrDefault("GIN_MODE", "release"),
	}
}

func validateConfig(config *Config) error {
	if config.Profiler.MaxUniqueValues < 1 {
		return errors.InvalidInput("PROFILER_MAX_UNIQUE_VALUES must be at least 1")
	}
	if config.Profiler.TypeThreshold <= 0 || config.Profiler.TypeThreshold > 1 {
		return errors.InvalidInput("PROFILER_TYPE_THRESHOLD must be in (0,1]")
	}
	if config.Profiler.TemporalMinConfidence <= 0 || config.Profiler.TemporalMinConfidence > 1 {
		return errors.InvalidInput("PROFILER_TEMPORAL_MIN_CONFIDENCE must be in (0,1]")
	}
	return nil
}

// Options converts the profiler section into engine options.
func (c ProfilerConfig) Options() profile.Options {
	return profile.Options{
		MaxUniqueValues:       c.MaxUniqueValues,
		TypeThreshold:         c.TypeThreshold,
		TemporalMinConfidence: c.TemporalMinConfidence,
		TemporalSampleSize:    c.TemporalSampleSize,
		OutlierValueCap:       c.OutlierValueCap,
		MaxParallelFields:     c.MaxParallelFields,
	}
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
