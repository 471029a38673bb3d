package orchestration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/logging"
)

const tracerName = "github.com/agbru/bigcalc/internal/orchestration"

// Options controls how expressions are evaluated.
type Options struct {
	// Workers bounds the number of concurrent evaluations in a batch.
	// Values below 1 mean one worker.
	Workers int
	// MaxDigits caps the size of every intermediate and final value.
	// Zero disables the cap.
	MaxDigits int64
	// Verify cross-checks every successful result against the math/big
	// reference evaluation.
	Verify bool
	// Env holds the variables visible to the expressions. It is only read.
	Env expr.Env
	// Observer is notified around each evaluation. Nil means NullObserver.
	Observer Observer
	// Logger receives debug traces of each evaluation. Nil means no logging.
	Logger logging.Logger
}

func (o Options) observer() Observer {
	if o.Observer == nil {
		return NullObserver{}
	}
	return o.Observer
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewNopLogger()
	}
	return o.Logger
}

func (o Options) exprOptions() []expr.Option {
	if o.MaxDigits <= 0 {
		return nil
	}
	return []expr.Option{expr.WithMaxDigits(o.MaxDigits)}
}

// Evaluate parses and evaluates a single expression. Failures are returned in
// the result, wrapped in an apperrors.CalculationError naming the expression.
//
// Parameters:
//   - ctx: The context for cancellation; it is checked between nodes.
//   - src: The expression source text.
//   - opts: Evaluation options.
//
// Returns:
//   - EvalResult: The value or the error, and the time spent.
func Evaluate(ctx context.Context, src string, opts Options) EvalResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("bigcalc.expr", src),
		attribute.Bool("bigcalc.verify", opts.Verify),
	)

	obs := opts.observer()
	log := opts.logger()
	obs.EvaluationStarted()
	start := time.Now()

	res := EvalResult{Expr: src}
	res.Value, res.Verified, res.Err = evaluate(ctx, src, opts)
	res.Duration = time.Since(start)
	obs.EvaluationFinished(res.Duration, res.Err)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		msg := "evaluation failed"
		if apperrors.IsContextError(res.Err) {
			msg = "evaluation interrupted"
		}
		log.Debug(msg,
			logging.String("expr", src),
			logging.Duration("duration", res.Duration),
			logging.Err(res.Err))
		return res
	}
	span.SetAttributes(attribute.Int("bigcalc.digits", res.Value.DigitCount()))
	log.Debug("evaluation done",
		logging.String("expr", src),
		logging.Int("digits", res.Value.DigitCount()),
		logging.Duration("duration", res.Duration))
	return res
}

func evaluate(ctx context.Context, src string, opts Options) (*bigint.Int, bool, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return nil, false, apperrors.CalculationError{Expr: src, Cause: err}
	}
	v, err := e.EvalContext(ctx, opts.Env, opts.exprOptions()...)
	if err != nil {
		return nil, false, apperrors.CalculationError{Expr: src, Cause: err}
	}
	if !opts.Verify {
		return v, false, nil
	}
	want, err := e.EvalBig(opts.Env)
	if err != nil {
		v.Release()
		return nil, false, apperrors.CalculationError{
			Expr:  src,
			Cause: fmt.Errorf("reference evaluation failed: %w", err),
		}
	}
	got := v.String()
	if got != want.String() {
		v.Release()
		return nil, false, apperrors.MismatchError{Expr: src, Got: got, Want: want.String()}
	}
	return v, true, nil
}

// ExecuteBatch orchestrates the concurrent evaluation of a batch of
// expressions.
//
// It manages the lifecycle of the worker goroutines, collects their results
// in input order, and coordinates the display of progress updates. Once ctx
// is canceled, expressions that have not started yet are reported with the
// context error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - exprs: The expressions to evaluate.
//   - opts: Evaluation options, including the worker limit.
//   - progressReporter: The progress reporter for displaying updates (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []EvalResult: One result per expression, in input order.
func ExecuteBatch(ctx context.Context, exprs []string, opts Options, progressReporter ProgressReporter, out io.Writer) []EvalResult {
	results := make([]EvalResult, len(exprs))
	if len(exprs) == 0 {
		return results
	}
	if progressReporter == nil {
		progressReporter = NullProgressReporter{}
	}

	var g errgroup.Group
	g.SetLimit(max(opts.Workers, 1))
	// One update per expression: the buffer never fills, so workers never
	// wait on a slow display.
	progressChan := make(chan ProgressUpdate, len(exprs))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(exprs), out)

	var completed atomic.Int64
	for idx, src := range exprs {
		g.Go(func() error {
			var res EvalResult
			if err := ctx.Err(); err != nil {
				res = EvalResult{Expr: src, Err: apperrors.CalculationError{Expr: src, Cause: err}}
			} else {
				res = Evaluate(ctx, src, opts)
			}
			res.Index = idx
			results[idx] = res
			progressChan <- ProgressUpdate{
				Index:     idx,
				Completed: int(completed.Add(1)),
				Total:     len(exprs),
				Err:       res.Err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	opts.logger().Debug("batch finished",
		logging.Int("expressions", len(exprs)),
		logging.Int("workers", max(opts.Workers, 1)))
	return results
}

// Summarize reports the results of a batch and returns the process exit code.
//
// A single expression is presented on its own. Larger batches get a summary
// table followed by a global status line. The exit code is that of the first
// failing expression in input order.
//
// Parameters:
//   - results: The results to report, in input order.
//   - opts: The presentation options.
//   - presenter: The result presenter for display formatting.
//   - handler: The error handler that prints errors and maps them to exit codes.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func Summarize(results []EvalResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	if len(results) == 0 {
		return apperrors.ExitSuccess
	}
	if len(results) == 1 {
		if results[0].Err != nil {
			return handler.HandleError(results[0].Err, out)
		}
		presenter.PresentResult(results[0], opts, out)
		return apperrors.ExitSuccess
	}

	var firstError error
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			if firstError == nil {
				firstError = res.Err
			}
		}
	}

	presenter.PresentSummary(results, out)

	if failed == 0 {
		if !opts.Quiet {
			fmt.Fprintf(out, "\nGlobal Status: Success. All %d expressions were evaluated.\n", len(results))
		}
		return apperrors.ExitSuccess
	}
	if failed == len(results) {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No expression could be evaluated.\n")
	} else {
		fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d expressions failed.\n", failed, len(results))
	}
	return handler.HandleError(firstError, out)
}

// ReleaseResults returns the values held by results to the segment pools.
// The results must not be used afterwards.
func ReleaseResults(results []EvalResult) {
	for i := range results {
		if results[i].Value != nil {
			results[i].Value.Release()
			results[i].Value = nil
		}
	}
}
