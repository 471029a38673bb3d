package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calibration"
	"github.com/agbru/bigcalc/internal/cli"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/tui"
	"github.com/agbru/bigcalc/internal/ui"
)

// Application represents the bigcalc application instance.
type Application struct {
	Config    config.AppConfig
	Stdin     io.Reader
	ErrWriter io.Writer

	logger  logging.Logger
	metrics *metrics.Metrics
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithStdin sets the reader used for piped expressions and the REPL.
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{Stdin: os.Stdin, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "bigcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	// A requested auto-calibration takes precedence over the cached profile;
	// it runs in Run, once the context is known.
	if !cfg.AutoCalibrate {
		if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
			cfg = cfgWithProfile
		}
	}

	app.Config = cfg
	app.logger = logging.NewLevelLogger(errWriter, "bigcalc", cfg.LogLevel)
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)
	a.Config = config.ApplyAdaptiveThresholds(a.Config)
	bigint.SetMulThreshold(a.Config.MulThreshold)
	a.logger.Debug("multiplication threshold", logging.Int("segments", bigint.MulThreshold()))

	stopMetrics, err := a.startMetricsServer(ctx)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: metrics server: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer stopMetrics()

	switch {
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL || a.isInteractive():
		return a.runREPL(out)
	}
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out, a.Config.CalibrationProfile, cli.CLIProgressReporter{}, a.logger)
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if a.Config.AutoCalibrate {
		progressOut := out
		if a.Config.Quiet {
			progressOut = io.Discard
		}
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, progressOut, a.logger); ok {
			return updated
		}
	}
	return a.Config
}

// startMetricsServer serves /metrics when an address is configured and
// makes the metrics the evaluation observer. The returned function stops
// the server and waits for it.
func (a *Application) startMetricsServer(ctx context.Context) (func(), error) {
	if a.Config.MetricsAddr == "" {
		return func() {}, nil
	}
	a.metrics = metrics.NewMetrics()
	srv := metrics.NewServer(a.Config.MetricsAddr, a.metrics, a.logger)
	ln, err := srv.Listen(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			a.logger.Warn("metrics server stopped", logging.Err(err))
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// evalOptions builds the evaluation options shared by every mode.
func (a *Application) evalOptions() orchestration.Options {
	opts := orchestration.Options{
		Workers:   a.Config.Workers,
		MaxDigits: a.Config.MaxDigits,
		Verify:    a.Config.Verify,
		Logger:    a.logger,
	}
	if a.metrics != nil {
		opts.Observer = a.metrics
	}
	return opts
}

// runTUI launches the interactive terminal calculator. The timeout bounds
// each evaluated line rather than the session.
func (a *Application) runTUI(ctx context.Context) int {
	return tui.Run(ctx, a.Config, a.evalOptions(), Version)
}

// runREPL starts the line-oriented interactive session.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{
		Timeout:     a.Config.Timeout,
		MaxDigits:   a.Config.MaxDigits,
		Verify:      a.Config.Verify,
		Verbose:     a.Config.Verbose,
		SessionFile: a.Config.SessionFile,
	}, a.evalOptions())
	repl.SetInput(a.Stdin)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// isInteractive reports whether no expression was given and stdin is a
// terminal, in which case bigcalc opens the REPL.
func (a *Application) isInteractive() bool {
	if len(a.Config.Expressions) > 0 || a.Config.BatchFile != "" {
		return false
	}
	f, ok := a.Stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
