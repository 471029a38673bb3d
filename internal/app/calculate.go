package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/bigcalc/internal/cli"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// runCalculate evaluates the expressions given on the command line, in a
// batch file or on piped stdin.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	batchFile := a.Config.BatchFile
	if batchFile == "" && len(a.Config.Expressions) == 0 {
		batchFile = "-"
	}
	exprs, err := orchestration.LoadExpressions(a.Config.Expressions, batchFile, a.Stdin)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	if a.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Timeout)
		defer cancel()
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(len(exprs), a.Config, out)
	}

	// A single expression has nothing to aggregate
	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet || len(exprs) == 1 {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	results := orchestration.ExecuteBatch(ctx, exprs, a.evalOptions(), progressReporter, progressOut)
	defer orchestration.ReleaseResults(results)
	for i := range results {
		if errors.Is(results[i].Err, context.DeadlineExceeded) {
			results[i].Err = apperrors.TimeoutError{Operation: results[i].Expr, Limit: a.Config.Timeout}
		}
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}

	exitCode := a.presentResults(results, outputCfg, out)

	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(metrics.NewMemoryCollector().Snapshot(), out)
	}
	return exitCode
}

// presentResults prints the results and saves them when an output file is
// configured. The exit code reflects the first failed expression.
func (a *Application) presentResults(results []orchestration.EvalResult, outputCfg cli.OutputConfig, out io.Writer) int {
	if outputCfg.Quiet {
		if err := cli.DisplayResultsWithConfig(out, results, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		for _, res := range results {
			if res.Err != nil {
				return apperrors.ExitCodeFor(res.Err)
			}
		}
		return apperrors.ExitSuccess
	}

	presOpts := orchestration.PresentationOptions{
		Verbose: a.Config.Verbose,
		Quiet:   a.Config.Quiet,
	}
	exitCode := orchestration.Summarize(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if len(results) > 1 {
		if err := cli.DisplayResultsWithConfig(out, results, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return exitCode
	}

	if outputCfg.OutputFile != "" && exitCode == apperrors.ExitSuccess {
		if err := cli.WriteResultsToFile(results, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving results: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}
	return exitCode
}
