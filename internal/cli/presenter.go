package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/mattn/go-runewidth"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// summaryExprWidth caps the expression column of the summary table.
const summaryExprWidth = 40

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during batch evaluation.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for the running batch.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, total int, out io.Writer) {
	DisplayProgress(wg, progressChan, total, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for CLI output. It provides formatted,
// colorized output for evaluation results in the command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentSummary displays the batch summary table with the expression,
// digit count, duration and status of every result.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentSummary(results []orchestration.EvalResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Batch Summary ---\n")

	maxExprLen := len("Expression")
	maxDigitsLen := len("Digits")
	maxDurationLen := len("Duration")
	for _, res := range results {
		maxExprLen = max(maxExprLen, runewidth.StringWidth(summaryExpr(res.Expr)))
		maxDigitsLen = max(maxDigitsLen, len(summaryDigits(res)))
		maxDurationLen = max(maxDurationLen, len(summaryDuration(res)))
	}

	fmt.Fprintf(out, "%s#%s%s   %sExpression%s%s   %sDigits%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", len(strconv.Itoa(len(results)))-1),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxExprLen-len("Expression")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDigitsLen-len("Digits")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	indexWidth := len(strconv.Itoa(len(results)))
	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), errorCause(res.Err), ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		idx := strconv.Itoa(res.Index + 1)
		expr := summaryExpr(res.Expr)
		digits := summaryDigits(res)
		duration := summaryDuration(res)
		fmt.Fprintf(out, "%s%s   %s%s%s%s   %s%s%s%s   %s%s%s%s   %s\n",
			padRight("", indexWidth-len(idx)), idx,
			ui.ColorBlue(), expr, ui.ColorReset(), padRight("", maxExprLen-runewidth.StringWidth(expr)),
			ui.ColorCyan(), digits, ui.ColorReset(), padRight("", maxDigitsLen-len(digits)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

func summaryExpr(s string) string {
	return runewidth.Truncate(s, summaryExprWidth, "…")
}

func summaryDigits(res orchestration.EvalResult) string {
	if res.Value == nil {
		return "-"
	}
	return format.FormatNumberString(strconv.Itoa(res.Value.DigitCount()))
}

func summaryDuration(res orchestration.EvalResult) string {
	if res.Duration == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(res.Duration)
}

// errorCause strips the expression prefix of a CalculationError, which the
// table already shows.
func errorCause(err error) error {
	var calcErr apperrors.CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Cause
	}
	return err
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays one result, honoring quiet and verbose modes.
func (CLIResultPresenter) PresentResult(result orchestration.EvalResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, result)
		return
	}
	DisplayResult(result, opts.Verbose, out)
}

// HandleError prints an evaluation error and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleCalculationError(err, 0, out, CLIColorProvider{})
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset clears formatting.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// DisplayMemoryStats shows memory statistics after a batch.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(snap.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
}
