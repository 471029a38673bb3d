// Package apperrors defines the error types reported to the user and the
// process exit code each one maps to.
//
// The expression evaluator classifies its failures with the ErrInvalidInput
// and ErrArithmetic sentinels; ExitCodeFor looks through any wrapping with
// errors.Is and errors.As, so callers can add context with %w freely.
package apperrors
