package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/config"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/ui"
)

// PrintExecutionConfig prints the settings a run evaluates with: limits,
// the multiplication threshold and the host.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	value := func(v any) string { return fmt.Sprintf("%s%v%s", ui.ColorYellow(), v, ui.ColorReset()) }
	label := func(s string) string { return ui.ColorCyan() + s + ui.ColorReset() }

	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "%s %s, %s %s digits\n",
		label("Timeout:"), value(cfg.Timeout),
		label("digit limit:"), value(format.FormatNumberString(fmt.Sprint(cfg.MaxDigits))))
	fmt.Fprintf(out, "%s %s segments\n", label("Karatsuba threshold:"), value(bigint.MulThreshold()))
	fmt.Fprintf(out, "%s %d logical CPUs, %s %s/%s\n",
		label("Host:"), runtime.NumCPU(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if cfg.ConfigFile != "" {
		fmt.Fprintf(out, "%s %s\n", label("Config file:"), cfg.ConfigFile)
	}
}

// PrintExecutionMode announces a single evaluation or a batch of count
// expressions spread over the configured workers.
func PrintExecutionMode(count int, cfg config.AppConfig, out io.Writer) {
	mode := "Single expression"
	if count > 1 {
		mode = fmt.Sprintf("Batch of %s%d%s expressions on %s%d%s workers",
			ui.ColorMagenta(), count, ui.ColorReset(),
			ui.ColorGreen(), max(min(cfg.Workers, count), 1), ui.ColorReset())
	}
	if cfg.Verify {
		mode += ", verified against math/big"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n\n--- Starting Execution ---\n", mode)
}
