package bigint

import (
	"fmt"
	"math/bits"
)

// DivMod sets q = ⌊a / b⌋ and r = a - b·q, so that a = b·q + r with r zero
// or carrying the sign of b and |r| < |b|.
//
// q and r must be distinct; either may alias a or b. Division by zero
// reports ErrInvalidArgument and leaves q and r unchanged.
//
// Divisors of one segment use the short division path. Longer divisors
// estimate the quotient through a Newton reciprocal of b and fix it with a
// bounded number of single steps.
func DivMod(a, b, q, r *Int) error {
	if q == r {
		return fmt.Errorf("%w: quotient and remainder must be distinct", ErrInvalidArgument)
	}
	a.segs()
	q.segs()
	r.segs()
	if b.Sign() == 0 {
		return errDivisionByZero()
	}
	if q == a || q == b || r == a || r == b {
		ac, bc := a.Clone(), b.Clone()
		defer ac.Release()
		defer bc.Release()
		a, b = ac, bc
	}
	divMod(a, b, q, r)
	return nil
}

// Div sets z = ⌊z / x⌋.
func (z *Int) Div(x *Int) error {
	q, r := New(), New()
	defer q.Release()
	defer r.Release()
	if err := DivMod(z, x, q, r); err != nil {
		return err
	}
	z.Set(q)
	return nil
}

// Mod sets z = z mod x; a nonzero result has the sign of x.
func (z *Int) Mod(x *Int) error {
	q, r := New(), New()
	defer q.Release()
	defer r.Release()
	if err := DivMod(z, x, q, r); err != nil {
		return err
	}
	z.Set(r)
	return nil
}

// divMod is DivMod for a nonzero b and q, r aliasing neither a nor b.
func divMod(a, b, q, r *Int) {
	defer checkDivMod(a, b, q, r)

	if b.sign < 0 {
		// a = (-b)(-q') + r' gives q = -q', r = r' when r' is zero and
		// q = -q' - 1, r = r' + b otherwise.
		nb := b.Clone().Neg()
		defer nb.Release()
		divMod(a, nb, q, r)
		q.Neg()
		if r.sign != 0 {
			r.Sub(nb)
			q.AddInt(-1)
		}
		return
	}

	bm := b.segs()
	if len(bm) == 1 {
		d := int32(bm[0])
		rem, err := a.ModInt(d)
		if err != nil {
			bug("single segment remainder: %v", err)
		}
		q.Set(a)
		if err := q.DivInt(d); err != nil {
			bug("single segment quotient: %v", err)
		}
		r.SetInt64(int64(rem))
		return
	}

	switch c := a.CmpAbs(b); {
	case c < 0:
		if a.sign >= 0 {
			q.SetZero()
			r.Set(a)
			return
		}
		q.SetInt64(-1)
		r.Set(a).Add(b)
		return
	case c == 0:
		q.SetInt64(int64(a.sign))
		r.SetZero()
		return
	}

	precision := a.StringLength() + b.StringLength() + 2
	inv := New()
	defer inv.Release()
	m := inv.reciprocal(b, precision)

	q.Set(a).Mul(inv).MulPow10(m)
	r.Set(q).Mul(b).Neg().Add(a)
	for steps := 0; ; steps++ {
		switch {
		case r.sign < 0:
			q.AddInt(-1)
			r.Add(b)
		case r.CmpAbs(b) >= 0:
			q.AddInt(1)
			r.Sub(b)
		default:
			return
		}
		if steps >= maxCorrectionSteps {
			bug("quotient estimate for %d-digit / %d-digit still off after %d steps",
				a.DigitCount(), b.DigitCount(), steps)
		}
	}
}

// reciprocal sets z to an approximation of 1/v scaled so that z·10^m ≈ 1/v,
// and returns m. v must be positive; n is the working precision in digits.
//
// With v ≈ base·10^expo the seed is (1/base)·10^(expo+n), and each step
// computes z = 2z - z²·v / 10^(2·expo+n). The correct digit count doubles
// every step, so the loop stops on a fixed point or after log2(n)+4 steps.
func (z *Int) reciprocal(v *Int, n int) int {
	base, expo := v.Scientific()
	m := -2*expo - n
	if err := z.SetScientific(1/base, expo+n); err != nil {
		bug("reciprocal seed: %v", err)
	}

	s, prev := New(), New()
	defer s.Release()
	defer prev.Release()
	budget := bits.Len(uint(n)) + 4
	for k := 0; ; k++ {
		s.Set(z).Mul(z).Mul(v).DivPow10(2*expo + n)
		prev.Set(z)
		z.MulInt(2).Sub(s)
		if z.Equal(prev) || k >= budget {
			return m
		}
	}
}

// checkDivMod verifies a = b·q + r and the remainder sign in debug mode.
func checkDivMod(a, b, q, r *Int) {
	if !debugEnabled() {
		return
	}
	if r.sign != 0 && r.sign != b.sign {
		bug("remainder %s has the wrong sign for divisor %s", r, b)
	}
	if r.CmpAbs(b) >= 0 {
		bug("remainder %s not smaller than divisor %s", r, b)
	}
	t := b.Clone()
	defer t.Release()
	t.Mul(q).Add(r)
	if !t.Equal(a) {
		bug("%s·%s + %s != %s", b, q, r, a)
	}
}
