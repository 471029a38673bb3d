package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/ui"
)

// printCalibrationResults prints one row per tried threshold with its
// multiplication time and how far it falls behind the fastest one.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestThreshold int) {
	var best time.Duration
	for _, res := range results {
		if res.Err == nil && res.Threshold == bestThreshold {
			best = res.Duration
		}
	}

	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Threshold\tTime\tvs best\t\n")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(tw, "  %d segs\t%sfailed%s\t-\t%v\n", res.Threshold, ui.ColorRed(), ui.ColorReset(), res.Err)
			continue
		}
		mark := ""
		if res.Threshold == bestThreshold {
			mark = fmt.Sprintf("%s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %d segs\t%s\t%s\t%s\n",
			res.Threshold, format.FormatExecutionDuration(res.Duration), relativeTo(res.Duration, best), mark)
	}
	tw.Flush()
}

// relativeTo renders d as a percentage above best, "=" for the best itself.
func relativeTo(d, best time.Duration) string {
	if best <= 0 || d <= best {
		return "="
	}
	return fmt.Sprintf("+%.1f%%", 100*float64(d-best)/float64(best))
}

// printCalibrationOutput reports the threshold chosen by auto-calibration.
func printCalibrationOutput(threshold int, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: multiplication threshold=%s%d%s segments\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), threshold, ui.ColorReset())
}
