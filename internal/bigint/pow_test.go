package bigint

import (
	"errors"
	"math/big"
	"testing"
)

func TestPow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    string
		n    int
		want string
	}{
		{"0", 0, "1"},
		{"12345", 0, "1"},
		{"0", 5, "0"},
		{"1", 1000, "1"},
		{"-1", 1001, "-1"},
		{"-1", 1000, "1"},
		{"7", 1, "7"},
		{"2", 100, "1267650600228229401496703205376"},
		{"-3", 5, "-243"},
		{"10", 30, "1000000000000000000000000000000"},
	}
	for _, tt := range tests {
		x := mustInt(t, tt.x)
		if err := x.Pow(tt.n); err != nil {
			t.Fatal(err)
		}
		if got := x.String(); got != tt.want {
			t.Errorf("%s^%d = %s, want %s", tt.x, tt.n, got, tt.want)
		}
		x.Release()
	}
}

func TestPowNegativeExponent(t *testing.T) {
	t.Parallel()
	x := NewInt64(3)
	if err := x.Pow(-2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Pow(-2) error = %v", err)
	}
	if x.String() != "3" {
		t.Errorf("failed Pow changed value to %s", x)
	}
}

func TestPowAgainstMathBig(t *testing.T) {
	t.Parallel()
	for _, base := range []int64{3, -7, 123456789, -999999999999} {
		for _, n := range []int{2, 3, 17, 64, 201} {
			x := NewInt64(base)
			if err := x.Pow(n); err != nil {
				t.Fatal(err)
			}
			want := new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(n)), nil)
			if toBig(t, x).Cmp(want) != 0 {
				t.Errorf("%d^%d mismatch", base, n)
			}
			x.Release()
		}
	}
}
