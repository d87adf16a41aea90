package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLogLevelString parses a log level name, case-insensitively.
// Valid levels: debug, info, warn, warning, error.
// Anything else yields defaultLevel.
func ParseLogLevelString(levelStr string, defaultLevel zapcore.Level) zapcore.Level {
	level, ok := lookupLevel(levelStr)
	if !ok {
		return defaultLevel
	}
	return level
}

// IsValidLogLevel reports whether levelStr names a level ParseLogLevelString understands.
func IsValidLogLevel(levelStr string) bool {
	_, ok := lookupLevel(levelStr)
	return ok
}

func lookupLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}
