// Package config handles command-line parsing, environment overrides and the
// optional TOML configuration file for bigcalc.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// EnvPrefix is the prefix shared by every environment variable read by bigcalc.
const EnvPrefix = "BIGCALC_"

// DefaultConfigFileName is the name of the TOML file looked up in the home
// directory when --config is not given.
const DefaultConfigFileName = ".bigcalc.toml"

const (
	// DefaultTimeout bounds a whole run (single expressions or a batch).
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxDigits caps the size of any intermediate value produced by
	// the expression evaluator.
	DefaultMaxDigits = 10_000_000
)

// AppConfig aggregates the configuration parameters of a bigcalc run.
type AppConfig struct {
	// Expressions are the positional arguments, evaluated in order.
	Expressions []string
	// BatchFile holds one expression per line, evaluated concurrently.
	BatchFile string
	// OutputFile receives the full (untruncated) results when set.
	OutputFile string
	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// MulThreshold is the multiply split threshold T in segments. Zero means
	// "not set" and lets the calibration chain pick a value.
	MulThreshold int
	// Workers bounds concurrent batch evaluations.
	Workers int
	// MaxDigits rejects intermediate values longer than this many digits.
	MaxDigits int64
	// Quiet prints bare results only.
	Quiet bool
	// Verbose prints full values instead of truncated ones.
	Verbose bool
	// Verify cross-checks every result against math/big.
	Verify bool
	// REPL starts the interactive session.
	REPL bool
	// TUI starts the bubbletea calculator.
	TUI bool
	// Calibrate runs the full multiplication threshold calibration.
	Calibrate bool
	// AutoCalibrate runs a quick calibration at startup.
	AutoCalibrate bool
	// CalibrationProfile overrides the default profile location.
	CalibrationProfile string
	// MetricsAddr serves Prometheus metrics on this address when non-empty.
	MetricsAddr string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// Completion prints a completion script for the given shell.
	Completion string
	// NoColor disables ANSI colors.
	NoColor bool
	// Theme selects the color palette: dark or light.
	Theme string
	// SessionFile is loaded at REPL start when non-empty.
	SessionFile string
}

// fileConfig mirrors the subset of AppConfig that may be set from TOML.
// Pointer fields distinguish "absent" from the zero value.
type fileConfig struct {
	Timeout            *string `toml:"timeout"`
	MulThreshold       *int    `toml:"mul_threshold"`
	Workers            *int    `toml:"workers"`
	MaxDigits          *int64  `toml:"max_digits"`
	Quiet              *bool   `toml:"quiet"`
	Verbose            *bool   `toml:"verbose"`
	Verify             *bool   `toml:"verify"`
	AutoCalibrate      *bool   `toml:"auto_calibrate"`
	CalibrationProfile *string `toml:"calibration_profile"`
	MetricsAddr        *string `toml:"metrics_addr"`
	LogLevel           *string `toml:"log_level"`
	NoColor            *bool   `toml:"no_color"`
	Theme              *string `toml:"theme"`
	SessionFile        *string `toml:"session_file"`
}

// flagToTOML maps flag names to the TOML key they shadow.
var flagToTOML = map[string][]string{
	"timeout":             {"timeout"},
	"mul-threshold":       {"mul-threshold", "t"},
	"workers":             {"workers", "j"},
	"max-digits":          {"max-digits"},
	"quiet":               {"quiet", "q"},
	"verbose":             {"verbose", "v"},
	"verify":              {"verify"},
	"auto-calibrate":      {"auto-calibrate"},
	"calibration-profile": {"calibration-profile"},
	"metrics-addr":        {"metrics-addr"},
	"log-level":           {"log-level"},
	"no-color":            {"no-color"},
	"theme":               {"theme"},
	"session":             {"session"},
}

// ParseConfig parses the command-line arguments, then layers the TOML file
// and the environment under any flag that was not set explicitly.
//
// Parameters:
//   - programName: The name shown in usage messages.
//   - args: The arguments, without the program name.
//   - errorWriter: Destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp for --help, a ConfigError for invalid values.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] EXPR...\n\n", programName)
		fmt.Fprintln(errorWriter, "Evaluates arbitrary-precision integer expressions.")
		fmt.Fprintln(errorWriter, "\nFlags:")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	var configFile string

	fs.StringVar(&configFile, "config", "", "TOML configuration file (default ~/"+DefaultConfigFileName+").")
	fs.StringVar(&config.BatchFile, "batch", "", "Evaluate one expression per line of this file.")
	fs.StringVar(&config.OutputFile, "output", "", "Write full results to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Write full results to this file (shorthand).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.IntVar(&config.MulThreshold, "mul-threshold", 0, "Multiplication split threshold in segments (0 = calibrated or adaptive).")
	fs.IntVar(&config.MulThreshold, "t", 0, "Multiplication split threshold (shorthand).")
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "Concurrent batch evaluations.")
	fs.IntVar(&config.Workers, "j", runtime.NumCPU(), "Concurrent batch evaluations (shorthand).")
	fs.Int64Var(&config.MaxDigits, "max-digits", DefaultMaxDigits, "Reject intermediate values longer than this many digits.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Print bare results only (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print full values instead of truncated ones.")
	fs.BoolVar(&config.Verbose, "v", false, "Print full values (shorthand).")
	fs.BoolVar(&config.Verify, "verify", false, "Cross-check every result against math/big.")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive session.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive terminal calculator.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Calibrate the multiplication threshold and exit.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration at startup.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.bigcalc_calibration.json).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", "dark", "Color palette: dark or light.")
	fs.StringVar(&config.SessionFile, "session", "", "REPL session file to load at startup.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	config.Expressions = fs.Args()

	path, explicit := resolveConfigFile(configFile, fs)
	if path != "" {
		if err := applyConfigFile(&config, fs, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(errorWriter, "Error:", err)
				return AppConfig{}, err
			}
		} else {
			config.ConfigFile = path
		}
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// resolveConfigFile returns the TOML path to load and whether the user asked
// for it explicitly (flag or BIGCALC_CONFIG). The implicit home-directory file
// is optional.
func resolveConfigFile(flagValue string, fs *flag.FlagSet) (string, bool) {
	if isFlagSet(fs, "config") {
		return flagValue, true
	}
	if env := getEnvString("CONFIG", ""); env != "" {
		return env, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, DefaultConfigFileName), false
}

// applyConfigFile decodes the TOML file at path and applies every key whose
// flag was not set on the command line.
func applyConfigFile(config *AppConfig, fs *flag.FlagSet, path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return apperrors.NewConfigError("invalid config file %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.NewConfigError("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	set := func(flagName string) bool { return isFlagSetAny(fs, flagToTOML[flagName]...) }

	if fc.Timeout != nil && !set("timeout") {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return apperrors.NewConfigError("invalid timeout %q in %s", *fc.Timeout, path)
		}
		config.Timeout = d
	}
	if fc.MulThreshold != nil && !set("mul-threshold") {
		config.MulThreshold = *fc.MulThreshold
	}
	if fc.Workers != nil && !set("workers") {
		config.Workers = *fc.Workers
	}
	if fc.MaxDigits != nil && !set("max-digits") {
		config.MaxDigits = *fc.MaxDigits
	}
	if fc.Quiet != nil && !set("quiet") {
		config.Quiet = *fc.Quiet
	}
	if fc.Verbose != nil && !set("verbose") {
		config.Verbose = *fc.Verbose
	}
	if fc.Verify != nil && !set("verify") {
		config.Verify = *fc.Verify
	}
	if fc.AutoCalibrate != nil && !set("auto-calibrate") {
		config.AutoCalibrate = *fc.AutoCalibrate
	}
	if fc.CalibrationProfile != nil && !set("calibration-profile") {
		config.CalibrationProfile = *fc.CalibrationProfile
	}
	if fc.MetricsAddr != nil && !set("metrics-addr") {
		config.MetricsAddr = *fc.MetricsAddr
	}
	if fc.LogLevel != nil && !set("log-level") {
		config.LogLevel = *fc.LogLevel
	}
	if fc.NoColor != nil && !set("no-color") {
		config.NoColor = *fc.NoColor
	}
	if fc.Theme != nil && !set("theme") {
		config.Theme = *fc.Theme
	}
	if fc.SessionFile != nil && !set("session") {
		config.SessionFile = *fc.SessionFile
	}
	return nil
}

// Validate checks the semantic validity of the configuration.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive, got %s", c.Timeout)
	}
	if c.MulThreshold < 0 {
		return apperrors.NewConfigError("mul-threshold cannot be negative: %d", c.MulThreshold)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxDigits < 1 {
		return apperrors.NewConfigError("max-digits must be at least 1, got %d", c.MaxDigits)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	modes := 0
	for _, on := range []bool{c.REPL, c.TUI, c.Calibrate, c.BatchFile != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--repl, --tui, --calibrate and --batch are mutually exclusive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.Theme) {
	case "dark", "light":
	default:
		return apperrors.NewConfigError("unknown theme %q", c.Theme)
	}
	if c.Completion != "" {
		switch c.Completion {
		case "bash", "zsh", "fish", "powershell", "ps":
		default:
			return apperrors.NewConfigError("unsupported completion shell %q", c.Completion)
		}
	}
	return nil
}
