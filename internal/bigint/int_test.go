package bigint

import (
	"testing"
)

func TestNewInitialState(t *testing.T) {
	t.Parallel()
	z := New()
	defer z.Release()

	if z.Sign() != 0 || z.Len() != 1 || z.Cap() != initCapacity {
		t.Errorf("New() = sign %d len %d cap %d, want 0 1 %d", z.Sign(), z.Len(), z.Cap(), initCapacity)
	}
	if got := z.String(); got != "0" {
		t.Errorf("New().String() = %q, want %q", got, "0")
	}
}

func TestZeroValueIsUsable(t *testing.T) {
	t.Parallel()
	var x Int
	if !x.IsZero() || x.String() != "0" || x.DigitCount() != 1 {
		t.Fatalf("zero value reads as %q", x.String())
	}

	var z Int
	z.Add(NewInt64(41)).AddInt(1)
	if got := z.String(); got != "42" {
		t.Errorf("zero value after Add = %q, want 42", got)
	}

	y := NewInt64(7)
	y.Mul(&x)
	if !y.IsZero() {
		t.Errorf("7 * zero value = %s, want 0", y)
	}
}

func TestUseAfterReleasePanics(t *testing.T) {
	t.Parallel()
	z := NewInt64(5)
	z.Release()
	expectPanic(t, errReleased, func() { z.AddInt(1) })
	expectPanic(t, errReleased, func() { _ = z.String() })
}

func TestDoubleReleasePanicsInDebugMode(t *testing.T) {
	t.Parallel()
	z := New()
	z.Release()
	expectPanic(t, "BUG: double release", z.Release)
}

func TestCapacityGrowth(t *testing.T) {
	t.Parallel()
	z := New()
	defer z.Release()

	z.ensureCapacity(12)
	if z.Cap() < 2*12+2 {
		t.Errorf("capacity after ensureCapacity(12) = %d, want >= 26", z.Cap())
	}
	if z.Len() != 1 || !z.IsZero() {
		t.Errorf("ensureCapacity changed the value to %s", z)
	}

	before := z.Cap()
	z.ensureCapacity(5)
	if z.Cap() != before {
		t.Errorf("ensureCapacity(5) reallocated: %d -> %d", before, z.Cap())
	}
}

func TestPackShrinksUnderusedBuffer(t *testing.T) {
	t.Parallel()
	z := New()
	defer z.Release()
	if err := z.SetString("1e5000"); err != nil {
		t.Fatal(err)
	}
	if z.Cap() < z.Len() {
		t.Fatalf("len %d exceeds cap %d", z.Len(), z.Cap())
	}

	z.SetInt64(5)
	if z.Len() != 1 || z.Cap() != initCapacity {
		t.Errorf("after shrinking: len %d cap %d, want 1 %d", z.Len(), z.Cap(), initCapacity)
	}
	if z.String() != "5" {
		t.Errorf("value after shrink = %s, want 5", z)
	}
}

func TestPackNormalizesZero(t *testing.T) {
	t.Parallel()
	z := mustInt(t, "-123456789123456789")
	defer z.Release()
	z.AddInt(123456789)
	z.Sub(mustInt(t, "-123456789000000000"))
	if z.Sign() != 0 || z.Len() != 1 {
		t.Errorf("sum to zero left sign %d len %d", z.Sign(), z.Len())
	}
}

func TestVerifyDetectsBrokenInvariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		z    *Int
		want string
	}{
		{"empty", &Int{sign: 0, mag: make([]uint32, 0, 4)}, "empty magnitude"},
		{"leading zero", &Int{sign: 1, mag: []uint32{1, 0}}, "most significant segment is zero"},
		{"signed zero", &Int{sign: 1, mag: []uint32{0}}, "disagrees with magnitude"},
		{"unsigned value", &Int{sign: 0, mag: []uint32{3}}, "disagrees with magnitude"},
		{"sign range", &Int{sign: 2, mag: []uint32{3}}, "out of range"},
		{"segment range", &Int{sign: 1, mag: []uint32{Radix}}, "segment 0 holds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectPanic(t, tt.want, tt.z.verify)
		})
	}
}

func TestSetMulThreshold(t *testing.T) {
	prev := SetMulThreshold(32)
	defer SetMulThreshold(prev)

	if got := MulThreshold(); got != 32 {
		t.Errorf("MulThreshold() = %d, want 32", got)
	}
	SetMulThreshold(1)
	if got := MulThreshold(); got != minMulThreshold {
		t.Errorf("MulThreshold() after 1 = %d, want %d", got, minMulThreshold)
	}
	SetMulThreshold(0)
	if got := MulThreshold(); got != DefaultMulThreshold {
		t.Errorf("MulThreshold() after reset = %d, want %d", got, DefaultMulThreshold)
	}
}
