package bigint

import (
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// SetZero sets z to 0.
func (z *Int) SetZero() *Int {
	z.ensureCapacity(1)
	z.mag = z.mag[:1]
	z.mag[0] = 0
	z.sign = 0
	z.pack()
	return z
}

// SetOne sets z to 1.
func (z *Int) SetOne() *Int {
	z.ensureCapacity(1)
	z.mag = z.mag[:1]
	z.mag[0] = 1
	z.sign = 1
	z.pack()
	return z
}

// Set sets z to x. Setting an Int to itself is a no-op.
func (z *Int) Set(x *Int) *Int {
	if z == x {
		z.segs()
		return z
	}
	src := x.segs()
	z.ensureCapacity(len(src))
	z.mag = z.mag[:len(src)]
	copy(z.mag, src)
	z.sign = x.sign
	z.pack()
	return z
}

// Clone returns a new Int holding the value of x.
func (x *Int) Clone() *Int {
	return New().Set(x)
}

// Neg sets z to -z.
func (z *Int) Neg() *Int {
	z.segs()
	z.sign = -z.sign
	return z
}

// Abs sets z to |z|.
func (z *Int) Abs() *Int {
	z.segs()
	if z.sign < 0 {
		z.sign = 1
	}
	return z
}

// SetInt64 sets z to v.
func (z *Int) SetInt64(v int64) *Int {
	var u uint64
	switch {
	case v == 0:
		return z.SetZero()
	case v < 0:
		u = uint64(-(v + 1)) + 1
	default:
		u = uint64(v)
	}
	// 2^63 has 19 digits, three segments.
	z.ensureCapacity(3)
	z.mag = z.mag[:3]
	n := 0
	for u > 0 {
		z.mag[n] = uint32(u % Radix)
		u /= Radix
		n++
	}
	z.mag = z.mag[:n]
	z.sign = 1
	if v < 0 {
		z.sign = -1
	}
	z.pack()
	return z
}

// Int32 returns x as an int32, or ErrOverflow if it does not fit.
func (x *Int) Int32() (int32, error) {
	m := x.segs()
	var acc int64
	for i := len(m) - 1; i >= 0; i-- {
		acc = acc*Radix + int64(m[i])
		if acc > math.MaxInt32+1 {
			return 0, fmt.Errorf("%w: %s does not fit in int32", ErrOverflow, x)
		}
	}
	v, err := safecast.Conv[int32](acc * int64(x.sign))
	if err != nil {
		return 0, fmt.Errorf("%w: %s does not fit in int32", ErrOverflow, x)
	}
	return v, nil
}

// Int64 returns x as an int64, or ErrOverflow if it does not fit.
func (x *Int) Int64() (int64, error) {
	m := x.segs()
	// MaxInt64 is 9_223372036_854775807: three segments, the top one below 10.
	if len(m) > 3 || (len(m) == 3 && m[2] > 9) {
		return 0, fmt.Errorf("%w: %s does not fit in int64", ErrOverflow, x)
	}
	var acc uint64
	for i := len(m) - 1; i >= 0; i-- {
		acc = acc*Radix + uint64(m[i])
	}
	if x.sign < 0 {
		if acc > 1<<63 {
			return 0, fmt.Errorf("%w: %s does not fit in int64", ErrOverflow, x)
		}
		return int64(-acc), nil
	}
	v, err := safecast.Conv[int64](acc)
	if err != nil {
		return 0, fmt.Errorf("%w: %s does not fit in int64", ErrOverflow, x)
	}
	return v, nil
}

// Float64 returns the nearest float64 to x. Values longer than 308 decimal
// digits report ErrOverflow.
func (x *Int) Float64() (float64, error) {
	m := x.segs()
	if SegmentDigits*len(m) > maxFloatDigits {
		return 0, fmt.Errorf("%w: %d segments exceed float64 range", ErrOverflow, len(m))
	}
	var f float64
	for i := len(m) - 1; i >= 0; i-- {
		f = f*Radix + float64(m[i])
	}
	if x.sign < 0 {
		f = -f
	}
	return f, nil
}

// SetFloat64 sets z to f rounded half-up to an integer. Only the 16 most
// significant decimal digits of f are kept; the digits below them become
// zero. NaN and infinities report ErrInvalidArgument and leave z unchanged.
func (z *Int) SetFloat64(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: cannot convert %v", ErrInvalidArgument, f)
	}
	if f > -0.5 && f < 0.5 {
		z.SetZero()
		return nil
	}
	return z.SetString(strconv.FormatFloat(f, 'e', doublePrecision-1, 64))
}
