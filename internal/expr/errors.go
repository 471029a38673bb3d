package expr

import (
	"errors"
	"fmt"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// ErrUndefined reports a variable that is not bound in the environment.
var ErrUndefined = errors.New("undefined variable")

// SyntaxError reports malformed source text. Pos is the byte offset of the
// offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Unwrap classifies every syntax error as invalid input.
func (e *SyntaxError) Unwrap() error { return apperrors.ErrInvalidInput }

// EvalError reports a failure while evaluating a well-formed expression. It
// matches both its cause and the class of the failure (invalid input for
// unbound variables, arithmetic for everything else).
type EvalError struct {
	Pos int
	Op  string
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Pos, e.Err)
}

// Unwrap returns the cause and the error class.
func (e *EvalError) Unwrap() []error {
	var limit apperrors.LimitError
	switch {
	case errors.Is(e.Err, ErrUndefined):
		return []error{e.Err, apperrors.ErrInvalidInput}
	case errors.As(e.Err, &limit):
		return []error{e.Err}
	default:
		return []error{e.Err, apperrors.ErrArithmetic}
	}
}

func syntaxErrorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func evalError(pos int, op string, err error) error {
	return &EvalError{Pos: pos, Op: op, Err: err}
}
