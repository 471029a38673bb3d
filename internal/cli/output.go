// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteResultsToFile].

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the results (empty for no file output).
	OutputFile string
	// Quiet mode prints bare values, one per line.
	Quiet bool
	// Verbose shows full values instead of truncating them.
	Verbose bool
}

// WriteResultsToFile writes the full values of a batch to a file. Failed
// expressions are recorded as comments.
//
// Parameters:
//   - results: The evaluation results, in input order.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultsToFile(results []orchestration.EvalResult, config OutputConfig) (err error) {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	// Write header
	fmt.Fprintf(w, "# bigcalc results\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Expressions: %d\n", len(results))

	for _, res := range results {
		fmt.Fprintf(w, "\n")
		if res.Err != nil {
			fmt.Fprintf(w, "# %s\n# error: %v\n", res.Expr, errorCause(res.Err))
			continue
		}
		fmt.Fprintf(w, "# Digits: %d, Duration: %s\n", res.Value.DigitCount(), res.Duration)
		fmt.Fprintf(w, "%s =\n", res.Expr)
		if _, err := w.Write(res.Value.Append(nil)); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Fprintf(w, "\n")
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult formats a result for quiet mode output: the bare value,
// or "error: ..." for a failed expression.
//
// Parameters:
//   - result: The evaluation result.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result orchestration.EvalResult) string {
	if result.Err != nil {
		return fmt.Sprintf("error: %v", errorCause(result.Err))
	}
	return result.Value.String()
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The evaluation result.
func DisplayQuietResult(out io.Writer, result orchestration.EvalResult) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResultsWithConfig prints a batch according to the output
// configuration and saves it to OutputFile when one is set. In quiet mode
// every value is printed on its own line, in input order.
//
// Parameters:
//   - out: The output writer.
//   - results: The evaluation results.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultsWithConfig(out io.Writer, results []orchestration.EvalResult, config OutputConfig) error {
	if config.Quiet {
		for _, res := range results {
			DisplayQuietResult(out, res)
		}
	} else {
		for _, res := range results {
			if res.Err == nil {
				fmt.Fprintln(out)
				DisplayResult(res, config.Verbose, out)
			}
		}
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultsToFile(results, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Results saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}
