package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go_fluxcheck/core"
	"go_fluxcheck/diffusion"
	"go_fluxcheck/logging"
	"go_fluxcheck/shutdown"
	"go_fluxcheck/smoke"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// Use fmt here since logger isn't initialized yet
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	cfg := core.LoadConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, core.ErrLogFileUnwritable(cfg.LogFilePath, err))
		os.Exit(core.ExitCodeError)
	}

	exitCode := run(logger, cfg, &smoke.Runner{
		Registry: newRegistry(logger),
		Out:      os.Stdout,
	})

	// Syncing a terminal returns EINVAL on Linux; the file core is what matters.
	_ = logger.Sync()
	os.Exit(exitCode)
}

// newLogger builds the process logger from the ambient configuration.
// An unknown level name falls back to the mode default.
func newLogger(cfg *core.Config) (*logging.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.DevMode {
		level = zapcore.DebugLevel
	}
	level = logging.ParseLogLevelString(cfg.LogLevel, level)

	return logging.NewLoggerWithLevel(cfg.DevMode, level, cfg.LogFilePath)
}

// run executes runner and returns the process exit code. A failed smoke
// test still exits with ExitCodeSuccess; only signals change it.
func run(logger *logging.Logger, cfg *core.Config, runner *smoke.Runner) int {
	logger = logger.With(zap.String("run_id", core.NewRunID()))
	logger.Info("fluxcheck starting",
		zap.String("version", core.GetVersionInfo()),
		zap.String("log_file", cfg.LogFilePath),
	)
	if cfg.LogLevel != "" && !logging.IsValidLogLevel(cfg.LogLevel) {
		err := core.ErrInvalidLogLevel(cfg.LogLevel)
		logger.Warn(err.Error(), zap.String("code", core.GetErrorCode(err)))
	}

	ctx, interrupter := shutdown.WatchSignals(context.Background(), logger, func(sig os.Signal) {
		logger.Warn("Forced exit", zap.String("signal", sig.String()))
		_ = logger.Sync()
		os.Exit(core.ExitCodeForSignal(sig))
	})
	defer interrupter.Stop()

	runner.Logger = logger.Named("smoke")
	if err := runner.Run(ctx); err != nil {
		logger.Debug("Smoke test reported failure", zap.Error(err))
	}

	if sig := interrupter.Signal(); sig != nil {
		code := core.ExitCodeForSignal(sig)
		logger.Info("Interrupted", zap.String("exit_code", core.ExitCodeName(code)))
		return code
	}
	return core.ExitCodeSuccess
}

// newRegistry returns the hub registry. If the hub client cannot be created
// the error is deferred to the first load so it goes through the normal
// failure report.
func newRegistry(logger *logging.Logger) diffusion.Registry {
	rtCfg := diffusion.LoadRuntimeConfig()
	logger.Debug("Registry configuration",
		zap.Bool("authenticated", rtCfg.HasToken()),
		zap.String("credential_origin", rtCfg.TokenSource),
		zap.Int("threads", rtCfg.Threads),
	)

	reg, err := diffusion.NewHubRegistry(rtCfg)
	if err != nil {
		logger.Warn("Hub registry unavailable", zap.Error(err))
		return unavailableRegistry{err: err}
	}
	return reg
}

// unavailableRegistry fails every load with the construction error.
type unavailableRegistry struct {
	err error
}

func (r unavailableRegistry) FromPretrained(ctx context.Context, modelID string, opts diffusion.LoadOptions) (diffusion.Pipeline, error) {
	return nil, r.err
}
