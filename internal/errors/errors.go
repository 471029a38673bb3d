package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the evaluation timed out.
	ExitErrorMismatch   = 3   // Indicates a result disagreed with the reference evaluation.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorInput      = 5   // Indicates a malformed expression or number.
	ExitErrorArithmetic = 6   // Indicates an arithmetic failure such as division by zero.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

var (
	// ErrInvalidInput classifies errors caused by malformed user input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrArithmetic classifies errors raised while computing a well-formed
	// expression: division by zero, negative exponents, overflowing
	// conversions.
	ErrArithmetic = errors.New("arithmetic error")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError ties an evaluation failure to the expression that caused
// it while preserving the original cause for errors.Is and errors.As.
type CalculationError struct {
	// Expr is the source text of the failing expression.
	Expr string
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the expression and the message of the underlying cause.
func (e CalculationError) Error() string {
	if e.Expr == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Expr, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports an evaluation stopped by the run timeout.
type TimeoutError struct {
	// Operation is the expression that was being evaluated.
	Operation string
	Limit     time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// LimitError reports a result that would exceed the configured digit limit.
// Evaluation stops before the oversized value is built.
type LimitError struct {
	// Operation names the step that would exceed the limit.
	Operation string
	// Digits is the estimated number of decimal digits of the result.
	Digits int64
	// Limit is the configured maximum.
	Limit int64
}

// Error returns a formatted message describing the limit violation.
func (e LimitError) Error() string {
	return fmt.Sprintf("%s would produce about %d digits (limit: %d)", e.Operation, e.Digits, e.Limit)
}

// MismatchError reports a value that disagrees with the reference
// evaluation of the same expression.
type MismatchError struct {
	Expr string
	Got  string
	Want string
}

// Error returns a formatted message describing the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("result mismatch for %q: got %s, reference %s", e.Expr, e.Got, e.Want)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that reports it.
//
// Parameters:
//   - err: The error to classify, possibly wrapped.
//
// Returns:
//   - int: ExitSuccess for nil, otherwise the most specific exit code.
func ExitCodeFor(err error) int {
	var (
		timeoutErr    TimeoutError
		configErr     ConfigError
		mismatchErr   MismatchError
		limitErr      LimitError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.Is(err, ErrInvalidInput):
		return ExitErrorInput
	case errors.Is(err, ErrArithmetic), errors.As(err, &limitErr):
		return ExitErrorArithmetic
	default:
		return ExitErrorGeneric
	}
}
