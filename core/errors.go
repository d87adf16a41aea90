package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a setup error with an actionable instruction.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", msg, e.Action)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Error codes for setup errors
const (
	ErrCodeLogFileUnwritable = "LOG_FILE_UNWRITABLE"
	ErrCodeInvalidLogLevel   = "INVALID_LOG_LEVEL"
)

// ErrLogFileUnwritable returns an error for a log file that cannot be opened.
func ErrLogFileUnwritable(path string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeLogFileUnwritable,
		Message: fmt.Sprintf("Cannot write log file %s", path),
		Action:  fmt.Sprintf("Set %s to a writable path", EnvLogFile),
		Cause:   cause,
	}
}

// ErrInvalidLogLevel returns an error for an unrecognized log level name.
func ErrInvalidLogLevel(level string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidLogLevel,
		Message: fmt.Sprintf("Unknown log level %q", level),
		Action:  fmt.Sprintf("Set %s to one of debug, info, warn, error", EnvLogLevel),
	}
}

// IsConfigError checks if an error is (or wraps) a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
