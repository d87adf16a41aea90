package smoke

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go_fluxcheck/diffusion"
	"go_fluxcheck/logging"
	"go_fluxcheck/probe"

	"go.uber.org/zap"
)

// Runner performs one smoke-test run.
type Runner struct {
	// Registry supplies the pipeline. Required.
	Registry diffusion.Registry
	// Detector probes the host. Defaults to probe.NewSystemDetector().
	Detector probe.Detector
	// Out receives the console report. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives structured events. Defaults to a no-op logger.
	Logger *logging.Logger
	// Dir is where OutputPath is written. Empty means the working directory.
	Dir string
}

// Run probes the environment, loads the pipeline, generates and saves one
// image. Any failure after probing is printed with the remediation hints
// and returned for logging; callers should still exit normally.
func (r *Runner) Run(ctx context.Context) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	detector := r.Detector
	if detector == nil {
		detector = probe.NewSystemDetector()
	}

	start := time.Now()

	env := detector.Detect(ctx)
	PrintEnvironment(out, env)
	logger.Debug("Environment probed",
		zap.Bool("accelerator", env.Accelerator),
		zap.String("device_name", env.DeviceName),
		zap.String("source", env.Source),
		zap.String("runtime", env.RuntimeVersion),
		zap.NamedError("probe_error", env.Err),
	)

	exec := SelectExecution(env)
	metrics := logging.RunMetrics{
		ModelID:   ModelID,
		Device:    string(exec.Device),
		Precision: string(exec.Precision),
	}

	if err := r.loadAndGenerate(ctx, exec, out, logger, &metrics); err != nil {
		ReportFailure(out, err)
		logger.Error("Smoke test failed", zap.Error(err), logging.RunFields(metrics))
		return err
	}

	logger.Info("Smoke test complete",
		append([]zap.Field{logging.RunFields(metrics)}, logging.TimingFields(start)...)...)
	return nil
}

func (r *Runner) loadAndGenerate(ctx context.Context, exec Execution, out io.Writer, logger *logging.Logger, metrics *logging.RunMetrics) error {
	if r.Registry == nil {
		return fmt.Errorf("no model registry configured")
	}

	loadStart := time.Now()
	pipe, err := LoadPipeline(ctx, r.Registry, exec, out)
	metrics.LoadDuration = time.Since(loadStart)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pipe.Close(); cerr != nil {
			logger.Warn("Failed to release pipeline", zap.Error(cerr))
		}
	}()
	logger.Info("Pipeline loaded",
		zap.String("device", string(exec.Device)),
		zap.String("precision", string(exec.Precision)),
		zap.Duration("load_duration", metrics.LoadDuration),
	)

	genStart := time.Now()
	saved, err := GenerateAndSave(ctx, pipe, r.Dir, out)
	metrics.GenerateDuration = time.Since(genStart)
	if err != nil {
		return err
	}

	metrics.ImageWidth = saved.Width
	metrics.ImageHeight = saved.Height
	metrics.OutputBytes = saved.Bytes
	metrics.OutputSHA256 = saved.SHA256
	return nil
}
