// Package calibration measures the multiplication split threshold that is
// fastest on the current machine and caches it in a JSON profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

const (
	fullRepetitions  = 5
	quickRepetitions = 3
	operandSeed      = 0x5eed
)

// calibrationResult is the best timing of one candidate threshold.
type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// randomOperand returns an n-digit positive integer drawn from r.
func randomOperand(r *rand.Rand, n int) (*bigint.Int, error) {
	var b strings.Builder
	b.Grow(n)
	b.WriteByte(byte('1' + r.IntN(9)))
	for i := 1; i < n; i++ {
		b.WriteByte(byte('0' + r.IntN(10)))
	}
	z := bigint.New()
	if err := z.SetString(b.String()); err != nil {
		z.Release()
		return nil, err
	}
	return z, nil
}

// measure times x × y under threshold and returns the fastest of reps runs.
// The global threshold is restored before returning.
func measure(ctx context.Context, threshold int, x, y *bigint.Int, reps int) (time.Duration, error) {
	prev := bigint.SetMulThreshold(threshold)
	defer bigint.SetMulThreshold(prev)

	z := bigint.New()
	defer z.Release()

	var best time.Duration
	for i := range reps {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		z.Set(x).Mul(y)
		if d := time.Since(start); i == 0 || d < best {
			best = d
		}
	}
	return best, nil
}

// runBenchmarks times every threshold in turn, reporting one progress
// update per candidate. Candidates run sequentially because the threshold
// is process-wide.
func runBenchmarks(ctx context.Context, thresholds []int, digits, reps int,
	reporter orchestration.ProgressReporter, out io.Writer, logger logging.Logger,
) ([]calibrationResult, error) {
	r := rand.New(rand.NewPCG(operandSeed, uint64(digits)))
	x, err := randomOperand(r, digits)
	if err != nil {
		return nil, err
	}
	defer x.Release()
	y, err := randomOperand(r, digits)
	if err != nil {
		return nil, err
	}
	defer y.Release()

	progressChan := make(chan orchestration.ProgressUpdate, len(thresholds))
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, len(thresholds), out)

	results := make([]calibrationResult, 0, len(thresholds))
	for i, t := range thresholds {
		d, err := measure(ctx, t, x, y, reps)
		results = append(results, calibrationResult{Threshold: t, Duration: d, Err: err})
		fields := []logging.Field{logging.Int("threshold", t), logging.Duration("duration", d)}
		if err != nil {
			fields = append(fields, logging.Err(err))
		}
		logger.Debug("calibration sample", fields...)
		progressChan <- orchestration.ProgressUpdate{Index: i, Completed: i + 1, Total: len(thresholds), Err: err}
		if err != nil {
			break
		}
	}
	close(progressChan)
	wg.Wait()

	return results, ctx.Err()
}

// bestThreshold returns the fastest successful candidate, or 0 when none
// succeeded. Ties keep the smaller threshold.
func bestThreshold(results []calibrationResult) int {
	best := 0
	var bestDur time.Duration
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if best == 0 || res.Duration < bestDur {
			best, bestDur = res.Threshold, res.Duration
		}
	}
	return best
}

// RunCalibration runs the full calibration, prints the timing table, and
// saves the winning threshold to the profile at profilePath (the default
// location when empty).
//
// Parameters:
//   - ctx: Cancels the benchmark between samples.
//   - out: Destination of the report.
//   - profilePath: Where to store the profile.
//   - reporter: Displays progress over the candidate list.
//   - logger: Receives per-sample debug entries.
//
// Returns:
//   - int: The process exit code.
func RunCalibration(ctx context.Context, out io.Writer, profilePath string,
	reporter orchestration.ProgressReporter, logger logging.Logger,
) int {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	thresholds := GenerateThresholds()
	digits := operandDigits(thresholds, false)

	fmt.Fprintf(out, "--- Calibration Mode ---\n")
	fmt.Fprintf(out, "Timing %s%d%s thresholds on %s%d%s-digit operands...\n",
		ui.ColorMagenta(), len(thresholds), ui.ColorReset(), ui.ColorMagenta(), digits, ui.ColorReset())

	start := time.Now()
	results, err := runBenchmarks(ctx, thresholds, digits, fullRepetitions, reporter, out, logger)
	if err != nil {
		fmt.Fprintf(out, "%sCalibration interrupted: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitCodeFor(err)
	}

	best := bestThreshold(results)
	printCalibrationResults(out, results, best)
	if best == 0 {
		fmt.Fprintf(out, "%sNo threshold could be measured.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	profile := NewProfile()
	profile.OptimalMulThreshold = best
	profile.CalibrationDigits = digits
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	path := resolveProfilePath(profilePath)
	if err := profile.SaveProfile(path); err != nil {
		logger.Error("could not save calibration profile", err, logging.String("path", path))
		fmt.Fprintf(out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Profile saved to %s%s%s\n", ui.ColorCyan(), path, ui.ColorReset())
	}

	fmt.Fprintf(out, "\n%sRecommendation:%s use %s--mul-threshold %d%s (already applied through the profile).\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), best, ui.ColorReset())
	return apperrors.ExitSuccess
}

// AutoCalibrate runs the quick calibration when no explicit threshold was
// configured, stores the result in the profile, and returns the updated
// configuration. The boolean reports whether a threshold was measured.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, logger logging.Logger) (config.AppConfig, bool) {
	if cfg.MulThreshold != 0 {
		return cfg, false
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	thresholds := GenerateQuickThresholds()
	digits := operandDigits(thresholds, true)

	start := time.Now()
	results, err := runBenchmarks(ctx, thresholds, digits, quickRepetitions,
		orchestration.NullProgressReporter{}, io.Discard, logger)
	best := bestThreshold(results)
	if err != nil || best == 0 {
		logger.Debug("auto-calibration skipped", logging.Int("measured", len(results)))
		return cfg, false
	}

	cfg.MulThreshold = best
	profile := NewProfile()
	profile.OptimalMulThreshold = best
	profile.CalibrationDigits = digits
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	if err := profile.SaveProfile(resolveProfilePath(cfg.CalibrationProfile)); err != nil {
		logger.Debug("could not save calibration profile", logging.Err(err))
	}
	printCalibrationOutput(best, out)
	return cfg, true
}

// LoadCachedCalibration applies the threshold of a valid, fresh profile when
// no explicit threshold was configured. The boolean reports whether the
// profile was used.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (config.AppConfig, bool) {
	if cfg.MulThreshold != 0 {
		return cfg, false
	}
	p, err := loadProfile(resolveProfilePath(profilePath))
	if err != nil || !p.IsValid() || p.IsStale(DefaultProfileMaxAge) || p.OptimalMulThreshold <= 0 {
		return cfg, false
	}
	cfg.MulThreshold = p.OptimalMulThreshold
	return cfg, true
}
