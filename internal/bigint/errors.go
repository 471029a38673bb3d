package bigint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports malformed input, division or modulo by zero,
	// and negative exponents.
	ErrInvalidArgument = errors.New("bigint: invalid argument")

	// ErrOverflow reports a narrowing conversion whose result does not fit the
	// target type.
	ErrOverflow = errors.New("bigint: overflow")
)

const errReleased = "bigint: use of released Int"

func errDivisionByZero() error {
	return fmt.Errorf("%w: division by zero", ErrInvalidArgument)
}

// bug reports a broken internal invariant. These are programming errors, not
// conditions a caller can recover from.
func bug(format string, args ...any) {
	panic(fmt.Sprintf("bigint: BUG: "+format, args...))
}
