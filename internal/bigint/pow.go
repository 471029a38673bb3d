package bigint

import "fmt"

// Pow sets z = z^n for n >= 0. 0^0 is 1.
func (z *Int) Pow(n int) error {
	z.segs()
	switch {
	case n < 0:
		return fmt.Errorf("%w: negative exponent %d", ErrInvalidArgument, n)
	case n == 0:
		z.SetOne()
	case n == 1 || z.sign == 0 || z.IsOne():
	case z.IsNegOne():
		if n%2 == 0 {
			z.SetOne()
		}
	default:
		z.powSquaring(n)
	}
	return nil
}

// powSquaring sets z = z^n for n >= 1 by recursive squaring.
func (z *Int) powSquaring(n int) {
	if n == 1 {
		return
	}
	if n%2 == 1 {
		base := z.Clone()
		defer base.Release()
		z.powSquaring(n / 2)
		z.Mul(z)
		z.Mul(base)
		return
	}
	z.powSquaring(n / 2)
	z.Mul(z)
}
