package logging

import (
	"fmt"
	"os"

	"go_fluxcheck/core"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore creates a zapcore.Core that tees output to stderr and a rotating log file.
// Stdout is left to the console report.
//
// The file output always uses JSON encoding. The console output uses the
// colored human-readable encoder in development mode and JSON otherwise.
//
// The file is opened eagerly so an unwritable path is reported here and not
// on the first log write.
func NewMultiCore(level zapcore.Level, filePath string, isDev bool) (zapcore.Core, error) {
	if err := core.EnsureParentDirectory(filePath); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	file.Close()

	return NewMultiCoreWithWriters(level, zapcore.AddSync(os.Stderr), NewFileWriter(filePath), isDev), nil
}

// NewMultiCoreWithWriters creates a zapcore.Core that tees output to provided writers.
// This variant allows for custom writers, useful for testing.
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)

	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}

	consoleCore := zapcore.NewCore(
		consoleEncoder,
		consoleWriter,
		level,
	)

	return zapcore.NewTee(consoleCore, fileCore)
}
