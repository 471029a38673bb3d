package bigint

import "sync/atomic"

// minMulThreshold keeps the three-way split shrinking its operands: halves of
// four or more segments stay shorter than the input even after the carry
// segment of z1+z0.
const minMulThreshold = 4

// mulThreshold holds the split threshold in segments; zero means default.
var mulThreshold atomic.Int64

// MulThreshold returns the segment count from which multiplication splits
// its operands instead of running the quadratic loop.
func MulThreshold() int {
	if t := mulThreshold.Load(); t > 0 {
		return int(t)
	}
	return DefaultMulThreshold
}

// SetMulThreshold sets the split threshold and returns the previous one. A
// value <= 0 restores DefaultMulThreshold. Thresholds below minMulThreshold
// are raised to it, since splitting shorter operands would not shrink them.
func SetMulThreshold(n int) int {
	prev := MulThreshold()
	switch {
	case n <= 0:
		n = 0
	case n < minMulThreshold:
		n = minMulThreshold
	}
	mulThreshold.Store(int64(n))
	return prev
}

// Mul sets z = z × x and returns z. z.Mul(z) squares z.
func (z *Int) Mul(x *Int) *Int {
	if z == x {
		t := x.Clone()
		defer t.Release()
		return z.Mul(t)
	}
	x.segs()
	z.segs()
	sign := z.sign * x.sign
	if sign == 0 {
		return z.SetZero()
	}
	z.sign = 1
	z.mulAbs(x)
	z.sign = sign
	return z
}

// MulInt sets z = z × v and returns z.
func (z *Int) MulInt(v int64) *Int {
	z.segs()
	switch {
	case v == 0:
		return z.SetZero()
	case v == 1 || z.sign == 0:
		return z
	case v == -1:
		return z.Neg()
	case v <= -Radix || v >= Radix:
		t := NewInt64(v)
		defer t.Release()
		return z.Mul(t)
	}
	if v < 0 {
		z.sign = -z.sign
		v = -v
	}
	z.mulSmall(uint64(v))
	return z
}

// mulSmall sets |z| = |z| × v for 0 < v < B.
func (z *Int) mulSmall(v uint64) {
	n := len(z.mag)
	z.resize(n + 1)
	var carry uint64
	for i := 0; i <= n; i++ {
		p := uint64(z.mag[i])*v + carry
		z.mag[i] = uint32(p % Radix)
		carry = p / Radix
	}
	if carry != 0 {
		bug("carry %d out of the top segment", carry)
	}
	z.pack()
}

// mulAbs sets z = |z| × |x| for a non-negative z distinct from x. Operands
// shorter than the threshold multiply directly; longer ones are split.
func (z *Int) mulAbs(x *Int) {
	xm := x.segs()
	if z.sign == 0 || x.sign == 0 {
		z.SetZero()
		return
	}
	t := MulThreshold()
	zl, xl := len(z.mag), len(xm)
	if zl < t && xl < t {
		z.mulSchoolbook(xm)
		return
	}

	k := max(zl, xl) / 2
	if min(zl, xl) < t || min(zl, xl) <= k {
		z.mulSplitOne(x, k)
		return
	}
	z.mulKaratsuba(x, k)
}

// mulSchoolbook sets |z| = |z| × |xm| with the quadratic accumulation.
func (z *Int) mulSchoolbook(xm []uint32) {
	a := z.mag
	buf := acquireSegments(len(a) + len(xm))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, xj := range xm {
			p := uint64(ai)*uint64(xj) + uint64(buf[i+j]) + carry
			buf[i+j] = uint32(p % Radix)
			carry = p / Radix
		}
		for k := i + len(xm); carry != 0; k++ {
			s := uint64(buf[k]) + carry
			buf[k] = uint32(s % Radix)
			carry = s / Radix
		}
	}
	z.replace(buf)
	z.sign = 1
	z.pack()
}

// mulSplitOne splits only the longer operand at k segments:
//
//	(h·B^k + l) × y = (h × y)·B^k + l × y
func (z *Int) mulSplitOne(x *Int, k int) {
	if len(z.mag) >= len(x.segs()) {
		hi, lo := z.split(k)
		defer hi.Release()
		defer lo.Release()
		hi.mulAbs(x)
		lo.mulAbs(x)
		hi.shiftSegments(k)
		z.Set(hi).Add(lo)
		return
	}
	hi, lo := x.split(k)
	defer hi.Release()
	defer lo.Release()
	high := z.Clone()
	defer high.Release()
	high.mulAbs(hi)
	high.shiftSegments(k)
	z.mulAbs(lo)
	z.Add(high)
}

// mulKaratsuba splits both operands at k segments and uses three
// multiplications:
//
//	z1·x1·B^2k + ((z1+z0)(x1+x0) - z1·x1 - z0·x0)·B^k + z0·x0
func (z *Int) mulKaratsuba(x *Int, k int) {
	z1, z0 := z.split(k)
	x1, x0 := x.split(k)
	defer z1.Release()
	defer z0.Release()
	defer x1.Release()
	defer x0.Release()

	high := z1.Clone()
	defer high.Release()
	high.mulAbs(x1)
	low := z0.Clone()
	defer low.Release()
	low.mulAbs(x0)

	mid := z1.Add(z0)
	x1.Add(x0)
	mid.mulAbs(x1)
	mid.Sub(high).Sub(low)

	mid.shiftSegments(k)
	high.shiftSegments(2 * k)
	z.Set(high).Add(mid).Add(low)
}

// split returns the non-negative halves of |x| = hi·B^k + lo as new Ints the
// caller must release.
func (x *Int) split(k int) (hi, lo *Int) {
	m := x.segs()
	hi, lo = New(), New()
	if k >= len(m) {
		lo.setSegments(m)
	} else {
		hi.setSegments(m[k:])
		lo.setSegments(m[:k])
	}
	if debugEnabled() {
		check := hi.Clone()
		check.shiftSegments(k)
		check.Add(lo)
		if cmpSegs(check.segs(), m) != 0 {
			bug("split at %d does not recombine", k)
		}
		check.Release()
	}
	return hi, lo
}

// shiftSegments multiplies z by B^k.
func (z *Int) shiftSegments(k int) {
	z.MulPow10(k * SegmentDigits)
}
