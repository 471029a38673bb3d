package bigint

import (
	"fmt"
	"strconv"
	"strings"
)

// parseState is a state of the decimal literal recognizer.
type parseState int

const (
	stateStart     parseState = iota
	stateSign                 // after a leading '+' or '-'
	stateInt                  // in integer digits (accepting)
	stateDot                  // after '.'
	stateFrac                 // in fraction digits (accepting)
	stateExp                  // after 'e' or 'E'
	stateExpSign              // after the exponent sign
	stateExpDigits            // in exponent digits (accepting)
)

func (s parseState) accepting() bool {
	return s == stateInt || s == stateFrac || s == stateExpDigits
}

// decimalLiteral is a scanned literal: sign, digit runs and exponent.
type decimalLiteral struct {
	neg        bool
	intDigits  string
	fracDigits string
	exp        int
}

// scanDecimal recognizes
//
//	[+-]? digit+ ( '.' digit+ )? ( [eE] [+-]? digit+ )?
//
// and splits it into its parts. The exponent must fit in an int32.
func scanDecimal(text string) (decimalLiteral, error) {
	var lit decimalLiteral
	state := stateStart
	intStart, intEnd := 0, len(text)
	fracStart, fracEnd := -1, len(text)
	expStart := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		digit := '0' <= c && c <= '9'
		ok := true
		switch state {
		case stateStart:
			switch {
			case c == '+' || c == '-':
				lit.neg = c == '-'
				state = stateSign
			case digit:
				intStart = i
				state = stateInt
			default:
				ok = false
			}
		case stateSign:
			ok = digit
			intStart = i
			state = stateInt
		case stateInt:
			switch {
			case digit:
			case c == '.':
				intEnd = i
				state = stateDot
			case c == 'e' || c == 'E':
				intEnd = i
				state = stateExp
			default:
				ok = false
			}
		case stateDot:
			ok = digit
			fracStart = i
			state = stateFrac
		case stateFrac:
			switch {
			case digit:
			case c == 'e' || c == 'E':
				fracEnd = i
				state = stateExp
			default:
				ok = false
			}
		case stateExp:
			ok = digit || c == '+' || c == '-'
			expStart = i
			state = stateExpSign
			if digit {
				state = stateExpDigits
			}
		case stateExpSign:
			ok = digit
			state = stateExpDigits
		case stateExpDigits:
			ok = digit
		}
		if !ok {
			return lit, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrInvalidArgument, c, i, text)
		}
	}
	if !state.accepting() {
		return lit, fmt.Errorf("%w: incomplete number %q", ErrInvalidArgument, text)
	}

	lit.intDigits = text[intStart:intEnd]
	if fracStart >= 0 {
		lit.fracDigits = text[fracStart:fracEnd]
	}
	if expStart >= 0 {
		e, err := strconv.ParseInt(text[expStart:], 10, 32)
		if err != nil {
			return lit, fmt.Errorf("%w: exponent out of range in %q", ErrOverflow, text)
		}
		lit.exp = int(e)
	}
	return lit, nil
}

// SetString sets z to the value of the decimal literal text, rounded half-up
// to the nearest integer: "2.5" is 3 and "-2.5" is -3. On error z is left
// unchanged.
func (z *Int) SetString(text string) error {
	lit, err := scanDecimal(text)
	if err != nil {
		return err
	}
	z.setLiteral(lit)
	return nil
}

// setLiteral builds the integer D·10^E where D is the concatenated digit run
// and E the exponent corrected for the fraction length.
func (z *Int) setLiteral(lit decimalLiteral) {
	digits := strings.TrimLeft(lit.intDigits+lit.fracDigits, "0")
	exp := lit.exp - len(lit.fracDigits)
	if digits == "" {
		z.SetZero()
		return
	}

	roundUp := false
	if exp < 0 {
		drop := -exp
		switch {
		case drop > len(digits):
			z.SetZero()
			return
		case drop == len(digits):
			if digits[0] < '5' {
				z.SetZero()
				return
			}
			z.SetOne()
			if lit.neg {
				z.Neg()
			}
			return
		}
		roundUp = digits[len(digits)-drop] >= '5'
		digits = digits[:len(digits)-drop]
		exp = 0
	}

	z.setDigits(digits)
	if roundUp {
		z.AddInt(1)
	}
	z.MulPow10(exp)
	if lit.neg {
		z.Neg()
	}
}

// setDigits sets z to the positive value of a digit string without leading
// zeros.
func (z *Int) setDigits(s string) {
	n := segmentsForDigits(len(s))
	z.ensureCapacity(n)
	z.mag = z.mag[:n]
	for i := 0; i < n; i++ {
		end := len(s) - i*SegmentDigits
		start := max(end-SegmentDigits, 0)
		var v uint32
		for j := start; j < end; j++ {
			v = v*10 + uint32(s[j]-'0')
		}
		z.mag[i] = v
	}
	z.sign = 1
	z.pack()
}

// String returns the canonical decimal form of x: an optional '-', then
// digits without leading zeros.
func (x *Int) String() string {
	if x == nil {
		return "<nil>"
	}
	return string(x.appendDecimal(make([]byte, 0, x.StringLength())))
}

// Append appends the decimal form of x to buf.
func (x *Int) Append(buf []byte) []byte {
	return x.appendDecimal(buf)
}

func (x *Int) appendDecimal(buf []byte) []byte {
	m := x.segs()
	if x.sign < 0 {
		buf = append(buf, '-')
	}
	buf = strconv.AppendUint(buf, uint64(m[len(m)-1]), 10)
	var seg [SegmentDigits]byte
	for i := len(m) - 2; i >= 0; i-- {
		v := m[i]
		for j := SegmentDigits - 1; j >= 0; j-- {
			seg[j] = byte('0' + v%10)
			v /= 10
		}
		buf = append(buf, seg[:]...)
	}
	return buf
}

// StringLength returns len(x.String()) without building the string.
func (x *Int) StringLength() int {
	n := x.DigitCount()
	if x.sign < 0 {
		n++
	}
	return n
}

// DigitCount returns the number of decimal digits of |x|; zero has one.
func (x *Int) DigitCount() int {
	m := x.segs()
	return SegmentDigits*(len(m)-1) + segmentDigitCount(m[len(m)-1])
}

func segmentDigitCount(v uint32) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// NthDigit returns the decimal digit of |x| at position n, counted from the
// least significant digit at 0. Positions past the top read as 0.
func (x *Int) NthDigit(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative digit position %d", ErrInvalidArgument, n)
	}
	return x.nthDigit(n), nil
}

func (x *Int) nthDigit(n int) int {
	m := x.segs()
	i := n / SegmentDigits
	if i >= len(m) {
		return 0
	}
	return int(uint64(m[i]) / pow10tab[n%SegmentDigits] % 10)
}

// MarshalText implements encoding.TextMarshaler.
func (x *Int) MarshalText() ([]byte, error) {
	return x.appendDecimal(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *Int) UnmarshalText(text []byte) error {
	return z.SetString(string(text))
}
