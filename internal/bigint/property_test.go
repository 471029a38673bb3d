package bigint

import (
	"math/big"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// decimalGen generates signed decimal integer literals, leading zeros
// included, by repeating a digit run to reach multi-segment lengths.
func decimalGen() gopter.Gen {
	return gopter.CombineGens(gen.Bool(), gen.NumString(), gen.IntRange(1, 12)).Map(
		func(vals []any) string {
			digits := vals[1].(string)
			if digits == "" {
				digits = "0"
			}
			digits = strings.Repeat(digits, vals[2].(int))
			if vals[0].(bool) {
				return "-" + digits
			}
			return digits
		})
}

func propertyParams() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

// TestStringRoundTrip_PropertyBased checks that parsing an integer literal
// and printing it gives the canonical form math/big prints.
func TestStringRoundTrip_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())
	properties.Property("String(SetString(s)) is canonical", prop.ForAll(
		func(s string) bool {
			z := New()
			defer z.Release()
			if err := z.SetString(s); err != nil {
				return false
			}
			want, _ := new(big.Int).SetString(s, 10)
			return z.String() == want.String() && z.StringLength() == len(want.String())
		},
		decimalGen(),
	))
	properties.TestingRun(t)
}

// TestArithmeticLaws_PropertyBased checks algebraic identities that hold
// for every pair of integers.
func TestArithmeticLaws_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("(a + b) - b == a", prop.ForAll(
		func(as, bs string) bool {
			a, b := mustInt(t, as), mustInt(t, bs)
			defer a.Release()
			defer b.Release()
			c := a.Clone().Add(b).Sub(b)
			defer c.Release()
			return c.Equal(a)
		},
		decimalGen(), decimalGen(),
	))

	properties.Property("a × b == b × a == math/big product", prop.ForAll(
		func(as, bs string) bool {
			a, b := mustInt(t, as), mustInt(t, bs)
			ab := a.Clone().Mul(b)
			ba := b.Clone().Mul(a)
			want := new(big.Int).Mul(toBig(t, a), toBig(t, b))
			ok := ab.Equal(ba) && toBig(t, ab).Cmp(want) == 0
			for _, x := range []*Int{a, b, ab, ba} {
				x.Release()
			}
			return ok
		},
		decimalGen(), decimalGen(),
	))

	properties.Property("a == b·q + r with r zero or signed like b", prop.ForAll(
		func(as, bs string) bool {
			a, b := mustInt(t, as), mustInt(t, bs)
			defer a.Release()
			defer b.Release()
			if b.IsZero() {
				return true
			}
			q, r := New(), New()
			defer q.Release()
			defer r.Release()
			if err := DivMod(a, b, q, r); err != nil {
				return false
			}
			check := b.Clone().Mul(q).Add(r)
			defer check.Release()
			return check.Equal(a) &&
				(r.IsZero() || r.Sign() == b.Sign()) &&
				r.CmpAbs(b) < 0
		},
		decimalGen(), decimalGen(),
	))

	properties.Property("DivPow10 is the floor quotient", prop.ForAll(
		func(as string, n int) bool {
			a := mustInt(t, as)
			defer a.Release()
			want, _ := floorDivMod(toBig(t, a), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))
			return toBig(t, a.DivPow10(n)).Cmp(want) == 0
		},
		decimalGen(), gen.IntRange(0, 60),
	))

	properties.TestingRun(t)
}
