package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunMetrics captures the timing and placement of one smoke-test run.
// Implements zapcore.ObjectMarshaler for structured logging.
type RunMetrics struct {
	ModelID   string
	Device    string
	Precision string

	// LoadDuration covers registry fetch plus native model load.
	LoadDuration time.Duration
	// GenerateDuration covers the single pipeline invocation.
	GenerateDuration time.Duration

	ImageWidth   int
	ImageHeight  int
	OutputBytes  int64
	OutputSHA256 string
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m RunMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("model_id", m.ModelID)
	enc.AddString("device", m.Device)
	enc.AddString("precision", m.Precision)
	enc.AddFloat64("load_seconds", m.LoadDuration.Seconds())
	enc.AddFloat64("generate_seconds", m.GenerateDuration.Seconds())
	if m.ImageWidth > 0 {
		enc.AddInt("image_width", m.ImageWidth)
		enc.AddInt("image_height", m.ImageHeight)
	}
	if m.OutputBytes > 0 {
		enc.AddInt64("output_bytes", m.OutputBytes)
	}
	if m.OutputSHA256 != "" {
		enc.AddString("output_sha256", m.OutputSHA256)
	}
	return nil
}

// RunFields wraps RunMetrics as a single "run" object field.
//
// Example:
//
//	logger.Info("smoke test complete", logging.RunFields(metrics))
func RunFields(m RunMetrics) zap.Field {
	return zap.Object("run", m)
}

// TimingFields returns start time and elapsed duration fields for a step.
func TimingFields(start time.Time) []zap.Field {
	return []zap.Field{
		zap.Time("started_at", start),
		zap.Duration("elapsed", time.Since(start)),
	}
}
