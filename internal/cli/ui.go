//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

const (
	// TruncationLimit is the digit threshold from which a result is truncated
	// in standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of a truncated number.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress renders a spinner with a progress bar while a batch is
// evaluated. It returns when progressChan is closed, after printing the final
// state of the bar.
//
// Parameters:
//   - wg: Signaled when the display has finished.
//   - progressChan: One update per finished expression.
//   - total: The size of the batch.
//   - out: The writer for the spinner.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, total int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(total)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	var completed, failed int
	suffix := func(progress float64) string {
		status := fmt.Sprintf(" %d/%d", completed, total)
		if failed > 0 {
			status += fmt.Sprintf(", %s%d failed%s", ui.ColorRed(), failed, ui.ColorReset())
		}
		return " " + format.FormatProgressBarWithETA(progress, agg.GetETA(), ProgressBarWidth) + status
	}
	s.UpdateSuffix(suffix(0))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s\n", suffix(agg.CalculateAverage()))
				return
			}
			ap := agg.Update(update)
			completed = ap.Completed
			if ap.Failed {
				failed++
			}
			s.UpdateSuffix(suffix(ap.Progress))
		case <-ticker.C:
			s.UpdateSuffix(suffix(agg.CalculateAverage()))
		}
	}
}

// DisplayResult prints one evaluated expression: its value, digit count and
// timing. Values longer than TruncationLimit digits are shortened to their
// first and last DisplayEdges digits unless verbose is set.
//
// Parameters:
//   - res: The evaluation result; its Value must be non-nil.
//   - verbose: Print the full value.
//   - out: The writer for the result.
func DisplayResult(res orchestration.EvalResult, verbose bool, out io.Writer) {
	value := res.Value.String()
	digits := res.Value.DigitCount()

	fmt.Fprintf(out, "%s%s%s =\n", ui.ColorBold(), res.Expr, ui.ColorReset())
	if !verbose && digits > TruncationLimit {
		fmt.Fprintf(out, "  %s%s%s (truncated)\n",
			ui.ColorGreen(), format.TruncateDigits(value, TruncationLimit, DisplayEdges), ui.ColorReset())
	} else {
		fmt.Fprintf(out, "  %s%s%s\n", ui.ColorGreen(), value, ui.ColorReset())
	}

	verified := ""
	if res.Verified {
		verified = fmt.Sprintf(", %sverified%s", ui.ColorGreen(), ui.ColorReset())
	}
	fmt.Fprintf(out, "  %sDigits:%s %s%s%s, %sTime:%s %s%s%s%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorYellow(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset(),
		ui.ColorCyan(), ui.ColorReset(), ui.ColorYellow(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(),
		verified)
	if !verbose && digits > TruncationLimit {
		fmt.Fprintf(out, "  %sTip: use --verbose or -o FILE for the full value.%s\n", ui.ColorMagenta(), ui.ColorReset())
	}
}
