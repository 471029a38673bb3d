package bigint

// Sign returns -1, 0 or +1 according to the sign of x.
func (x *Int) Sign() int {
	x.segs()
	return x.sign
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool {
	return x.Sign() == 0
}

// IsOne reports whether x == 1.
func (x *Int) IsOne() bool {
	m := x.segs()
	return x.sign > 0 && len(m) == 1 && m[0] == 1
}

// IsNegOne reports whether x == -1.
func (x *Int) IsNegOne() bool {
	m := x.segs()
	return x.sign < 0 && len(m) == 1 && m[0] == 1
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Int) Cmp(y *Int) int {
	if x == y {
		x.segs()
		return 0
	}
	xm, ym := x.segs(), y.segs()
	switch {
	case x.sign < y.sign:
		return -1
	case x.sign > y.sign:
		return 1
	case x.sign == 0:
		return 0
	}
	c := cmpSegs(xm, ym)
	if x.sign < 0 {
		return -c
	}
	return c
}

// CmpAbs compares |x| and |y| and returns -1, 0 or +1.
func (x *Int) CmpAbs(y *Int) int {
	return cmpSegs(x.segs(), y.segs())
}

// Equal reports whether x == y.
func (x *Int) Equal(y *Int) bool {
	return x.Cmp(y) == 0
}

// cmpSegs compares two normalized magnitudes.
func cmpSegs(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
