//go:build gmp

package bigint

import (
	"math/rand/v2"
	"testing"

	"github.com/ncw/gmp"
)

// gmpFloorDivMod mirrors floorDivMod on GMP integers.
func gmpFloorDivMod(a, b *gmp.Int) (*gmp.Int, *gmp.Int) {
	q, r := new(gmp.Int).QuoRem(a, b, new(gmp.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, gmp.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}

func toGMP(t testing.TB, x *Int) *gmp.Int {
	t.Helper()
	g, ok := new(gmp.Int).SetString(x.String(), 10)
	if !ok {
		t.Fatalf("gmp rejected %q", x.String())
	}
	return g
}

// TestLargeOperandsAgainstGMP cross-checks products and quotients of
// operands far larger than the math/big tests use.
func TestLargeOperandsAgainstGMP(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for _, size := range [][2]int{{5000, 2000}, {20000, 9000}, {40000, 39000}} {
		a := mustInt(t, randomDigits(r, size[0], true))
		b := mustInt(t, randomDigits(r, size[1], true))
		ag, bg := toGMP(t, a), toGMP(t, b)

		prod := a.Clone().Mul(b)
		if toGMP(t, prod).Cmp(new(gmp.Int).Mul(ag, bg)) != 0 {
			t.Errorf("%d x %d digit product disagrees with GMP", size[0], size[1])
		}

		q, rem := New(), New()
		if err := DivMod(a, b, q, rem); err != nil {
			t.Fatal(err)
		}
		wantQ, wantR := gmpFloorDivMod(ag, bg)
		if toGMP(t, q).Cmp(wantQ) != 0 || toGMP(t, rem).Cmp(wantR) != 0 {
			t.Errorf("%d / %d digit division disagrees with GMP", size[0], size[1])
		}
		for _, x := range []*Int{a, b, prod, q, rem} {
			x.Release()
		}
	}
}
