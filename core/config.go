package core

import (
	"path/filepath"
)

// Environment variable names recognized for ambient settings.
// None of these change what the smoke test loads, generates or writes.
const (
	EnvDevMode  = "DEV_MODE"
	EnvLogLevel = "FLUXCHECK_LOG_LEVEL"
	EnvLogFile  = "FLUXCHECK_LOG_FILE"
)

// DefaultLogFileName is the log file created inside the data directory.
const DefaultLogFileName = "fluxcheck.log"

// Config holds ambient settings for a smoke-test run.
type Config struct {
	// DevMode switches the console log encoder to the colored, human-readable form
	// and lowers the default level to debug.
	DevMode bool

	// LogLevel is the raw level string, parsed by the logging package.
	LogLevel string

	// LogFilePath is where structured JSON logs are written.
	LogFilePath string
}

// LoadConfig reads the ambient configuration from the environment.
// It never fails: every value has a default.
func LoadConfig() *Config {
	return &Config{
		DevMode:     ParseBoolEnv(EnvDevMode, false),
		LogLevel:    GetEnvOrDefault(EnvLogLevel, ""),
		LogFilePath: GetEnvOrDefault(EnvLogFile, filepath.Join(GetDataDirectory(), DefaultLogFileName)),
	}
}
