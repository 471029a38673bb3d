package bigint

import "fmt"

// MulPow10 sets z = z × 10^n and returns z. Whole segments are inserted
// structurally; only the remaining 0..8 digits cost a multiplication. A
// negative n divides with DivPow10(-n).
func (z *Int) MulPow10(n int) *Int {
	switch {
	case n < 0:
		return z.DivPow10(-n)
	case n == 0 || z.Sign() == 0:
		return z
	}
	segs, digits := n/SegmentDigits, n%SegmentDigits
	if segs > 0 {
		old := len(z.mag)
		z.ensureCapacity(old + segs + 1)
		z.mag = z.mag[:old+segs]
		copy(z.mag[segs:], z.mag[:old])
		clear(z.mag[:segs])
	}
	if digits > 0 {
		z.mulSmall(pow10tab[digits])
		return z
	}
	z.pack()
	return z
}

// DivPow10 sets z = ⌊z / 10^n⌋ and returns z. Negative values round toward
// negative infinity, so -15 / 10 is -2. A negative n multiplies with
// MulPow10(-n).
func (z *Int) DivPow10(n int) *Int {
	switch {
	case n < 0:
		return z.MulPow10(-n)
	case n == 0 || z.Sign() == 0:
		return z
	}
	neg := z.sign < 0
	segs, digits := n/SegmentDigits, n%SegmentDigits
	if segs >= len(z.mag) {
		if neg {
			return z.SetInt64(-1)
		}
		return z.SetZero()
	}

	inexact := false
	for _, s := range z.mag[:segs] {
		if s != 0 {
			inexact = true
			break
		}
	}
	if segs > 0 {
		copy(z.mag, z.mag[segs:])
		z.mag = z.mag[:len(z.mag)-segs]
	}
	if digits > 0 {
		if z.divSmall(pow10tab[digits]) != 0 {
			inexact = true
		}
	} else {
		z.pack()
	}
	if neg && inexact {
		if z.sign == 0 {
			return z.SetInt64(-1)
		}
		z.AddInt(-1)
	}
	return z
}

// ModPow10 keeps the n lowest decimal digits of |z|; the sign is unchanged
// unless the result is zero.
func (z *Int) ModPow10(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative digit count %d", ErrInvalidArgument, n)
	}
	z.segs()
	if z.sign == 0 {
		return nil
	}
	segs, digits := n/SegmentDigits, n%SegmentDigits
	if segs >= len(z.mag) {
		return nil
	}
	z.mag = z.mag[:segs+1]
	z.mag[segs] = uint32(uint64(z.mag[segs]) % pow10tab[digits])
	z.pack()
	return nil
}

// divSmall sets |z| = ⌊|z| / d⌋ for 0 < d <= 2^31 and returns the
// remainder.
func (z *Int) divSmall(d uint64) uint64 {
	var r uint64
	for i := len(z.mag) - 1; i >= 0; i-- {
		cur := r*Radix + uint64(z.mag[i])
		z.mag[i] = uint32(cur / d)
		r = cur % d
	}
	z.pack()
	return r
}
