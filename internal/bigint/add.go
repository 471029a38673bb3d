package bigint

import "math"

// Add sets z = z + x and returns z. z.Add(z) doubles z.
func (z *Int) Add(x *Int) *Int {
	return z.add(x, x.Sign())
}

// Sub sets z = z - x and returns z. z.Sub(z) sets z to 0. The operand is
// never modified; its magnitude is added with the opposite sign.
func (z *Int) Sub(x *Int) *Int {
	if z == x {
		return z.SetZero()
	}
	return z.add(x, -x.Sign())
}

// add sets z = z + xsign·|x|.
func (z *Int) add(x *Int, xsign int) *Int {
	xm := x.segs()
	z.segs()
	switch {
	case xsign == 0:
		return z
	case z.sign == 0:
		z.Set(x)
		z.sign = xsign
		return z
	case len(xm) == 1:
		return z.AddInt(int64(xsign) * int64(xm[0]))
	case z == x:
		return z.MulInt(2)
	}
	z.addSegments(xm, xsign)
	return z
}

// addSegments sets z = z + xsign·|xm| for nonzero z and xm not aliasing z.
//
// Each combined segment sz·z[i] + sx·x[i] lies in (-2B, 2B). The most
// significant nonzero one gives the sign of the sum; a single pass then
// normalizes every segment into [0, B) by borrowing or carrying.
func (z *Int) addSegments(xm []uint32, xsign int) {
	n := max(len(z.mag), len(xm)) + 1
	zsign := int64(z.sign)
	sx := int64(xsign)
	z.resize(n)

	combined := func(i int) int64 {
		c := zsign * int64(z.mag[i])
		if i < len(xm) {
			c += sx * int64(xm[i])
		}
		return c
	}

	sign := int64(0)
	for i := n - 1; i >= 0; i-- {
		if c := combined(i); c != 0 {
			sign = 1
			if c < 0 {
				sign = -1
			}
			break
		}
	}
	if sign == 0 {
		z.SetZero()
		return
	}

	var carry int64
	for i := 0; i < n; i++ {
		v := sign*combined(i) + carry
		switch {
		case v < 0:
			v += Radix
			carry = -1
		case v >= Radix:
			v -= Radix
			carry = 1
		default:
			carry = 0
		}
		z.mag[i] = uint32(v)
	}
	if carry != 0 {
		bug("carry %d out of the top segment", carry)
	}
	z.sign = int(sign)
	z.pack()
}

// AddInt sets z = z + v and returns z. Values below one segment in
// magnitude touch only as many segments as the carry reaches.
func (z *Int) AddInt(v int64) *Int {
	m := z.segs()
	switch {
	case v == 0:
		return z
	case z.sign == 0:
		return z.SetInt64(v)
	case v <= -Radix || v >= Radix:
		t := NewInt64(v)
		defer t.Release()
		return z.Add(t)
	case len(m) == 1:
		return z.SetInt64(int64(z.sign)*int64(m[0]) + v)
	}

	// |z| >= B > |v|, so the sign of z survives.
	n := len(z.mag)
	if (v > 0) == (z.sign > 0) {
		z.resize(n + 1)
		carry := uint64(max(v, -v))
		for i := 0; carry != 0; i++ {
			s := uint64(z.mag[i]) + carry
			carry = 0
			if s >= Radix {
				s -= Radix
				carry = 1
			}
			z.mag[i] = uint32(s)
		}
	} else {
		borrow := max(v, -v)
		for i := 0; borrow != 0; i++ {
			d := int64(z.mag[i]) - borrow
			borrow = 0
			if d < 0 {
				d += Radix
				borrow = 1
			}
			z.mag[i] = uint32(d)
		}
	}
	z.pack()
	return z
}

// SubInt sets z = z - v and returns z.
func (z *Int) SubInt(v int64) *Int {
	if v == math.MinInt64 {
		t := NewInt64(v)
		defer t.Release()
		return z.Sub(t)
	}
	return z.AddInt(-v)
}
