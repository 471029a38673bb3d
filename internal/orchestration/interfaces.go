package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
)

// EvalResult encapsulates the outcome of a single expression evaluation.
// It serves as the shared domain type between orchestration and presentation layers.
type EvalResult struct {
	// Index is the position of the expression in its batch.
	Index int
	// Expr is the source text of the expression.
	Expr string
	// Value is the computed integer. It is nil if an error occurred, and is
	// owned by the result: ReleaseResults hands it back to the pool.
	Value *bigint.Int
	// Duration is the time taken to parse and evaluate the expression.
	Duration time.Duration
	// Verified reports that Value was cross-checked against math/big.
	Verified bool
	// Err contains any error that occurred during the evaluation.
	Err error
}

// ProgressUpdate reports that one expression of a batch has finished.
type ProgressUpdate struct {
	// Index is the position of the finished expression.
	Index int
	// Completed is the number of expressions finished so far, this one included.
	Completed int
	// Total is the size of the batch.
	Total int
	// Err is the evaluation error, if any.
	Err error
}

// Fraction returns the completed share of the batch in [0, 1].
func (u ProgressUpdate) Fraction() float64 {
	if u.Total <= 0 {
		return 1
	}
	return float64(u.Completed) / float64(u.Total)
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
}

// ProgressReporter defines the interface for displaying batch progress.
// This interface decouples the orchestration layer from the presentation layer,
// following Clean Architecture principles where business logic should not
// depend on UI concerns.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving one update per finished expression.
	//   - total: The number of expressions in the batch.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, total int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
// This allows passing a function directly where a ProgressReporter is expected.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, total int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, total int, out io.Writer) {
	f(wg, progressChan, total, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting evaluation results.
// This interface decouples the orchestration layer from presentation concerns,
// allowing different output formats without modifying the orchestration logic.
type ResultPresenter interface {
	// PresentSummary displays the per-expression summary table of a batch.
	PresentSummary(results []EvalResult, out io.Writer)

	// PresentResult displays one evaluated expression.
	PresentResult(result EvalResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports an evaluation error and returns the exit code.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}

// Observer is notified around every evaluation. Metrics and other
// instrumentation hook in here.
type Observer interface {
	EvaluationStarted()
	EvaluationFinished(d time.Duration, err error)
}

// NullObserver ignores all notifications.
type NullObserver struct{}

// EvaluationStarted does nothing.
func (NullObserver) EvaluationStarted() {}

// EvaluationFinished does nothing.
func (NullObserver) EvaluationFinished(time.Duration, error) {}
