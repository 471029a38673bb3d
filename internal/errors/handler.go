package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used when printing errors. It lets
// this package color its output without depending on the UI layer.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleCalculationError prints an evaluation error in a user-facing form and
// returns the exit code that reports it.
//
// Parameters:
//   - err: The error to report. A nil error prints nothing.
//   - duration: The time spent before the failure; zero omits it.
//   - out: The writer for the message.
//   - colors: The escape codes to use, or nil for plain text.
//
// Returns:
//   - int: The exit code from ExitCodeFor.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration.Round(time.Microsecond))
	}

	var (
		timeoutErr  TimeoutError
		limitErr    LimitError
		mismatchErr MismatchError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The evaluation did not finish in time%s.%s\n",
			colors.Red(), suffix, colors.Reset())
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
	case errors.As(err, &mismatchErr):
		fmt.Fprintf(out, "%sStatus: CRITICAL ERROR! %v%s\n", colors.Red(), mismatchErr, colors.Reset())
	case errors.As(err, &limitErr):
		fmt.Fprintf(out, "%sStatus: Failure. %v%s\n", colors.Red(), err, colors.Reset())
		fmt.Fprintf(out, "%sTip: raise the limit with --max-digits.%s\n", colors.Yellow(), colors.Reset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. %v%s\n", colors.Red(), err, colors.Reset())
	}
	return ExitCodeFor(err)
}
