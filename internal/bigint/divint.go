package bigint

import "math"

// DivInt sets z = ⌊z / d⌋. The quotient rounds toward negative infinity, so
// -7 / 2 is -4.
func (z *Int) DivInt(d int32) error {
	if d == 0 {
		return errDivisionByZero()
	}
	z.segs()
	if z.sign == 0 {
		return nil
	}
	sign := z.sign
	if d < 0 {
		sign = -sign
	}
	rem := z.divSmall(absInt32(d))
	if z.sign != 0 {
		z.sign = sign
	}
	if sign < 0 && rem != 0 {
		if z.sign == 0 {
			z.SetInt64(-1)
		} else {
			z.AddInt(-1)
		}
	}
	return nil
}

// ModInt returns x mod d. A nonzero result has the sign of d, matching the
// floor quotient of DivInt: x = d·⌊x/d⌋ + x mod d.
func (x *Int) ModInt(d int32) (int32, error) {
	if d == 0 {
		return 0, errDivisionByZero()
	}
	m := x.segs()
	ad := absInt32(d)
	var r uint64
	for i := len(m) - 1; i >= 0; i-- {
		r = (r*Radix + uint64(m[i])) % ad
	}
	v := int64(r)
	if x.sign < 0 {
		v = -v
	}
	if v != 0 && (v < 0) != (d < 0) {
		v += int64(d)
	}
	return int32(v), nil
}

func absInt32(d int32) uint64 {
	if d == math.MinInt32 {
		return 1 << 31
	}
	if d < 0 {
		return uint64(-d)
	}
	return uint64(d)
}
