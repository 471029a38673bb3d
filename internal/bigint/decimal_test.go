package bigint

import (
	"errors"
	"testing"
)

func TestSetString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"-0", "0"},
		{"+42", "42"},
		{"007", "7"},
		{"-000", "0"},
		{"123456789", "123456789"},
		{"1000000000", "1000000000"},
		{"-1234567890123456789012345", "-1234567890123456789012345"},
		{"123.456e2", "12346"},
		{"1.5", "2"},
		{"-1.5", "-2"},
		{"2.5", "3"},
		{"-2.5", "-3"},
		{"0.4", "0"},
		{"0.5", "1"},
		{"-0.5", "-1"},
		{"0.05", "0"},
		{"5e-1", "1"},
		{"4.9999", "5"},
		{"12e-1", "1"},
		{"15e-1", "2"},
		{"1.23e-5", "0"},
		{"0.000e5", "0"},
		{"4e-1", "0"},
		{"0000e10", "0"},
		{"1e0", "1"},
		{"1e9", "1000000000"},
		{"1E+3", "1000"},
		{"-7e18", "-7000000000000000000"},
		{"999999999.5", "1000000000"},
		{"-000123.4500e+2", "-12345"},
		{"1.000000001e9", "1000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			z := New()
			defer z.Release()
			if err := z.SetString(tt.in); err != nil {
				t.Fatalf("SetString(%q) error: %v", tt.in, err)
			}
			if got := z.String(); got != tt.want {
				t.Errorf("SetString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetStringErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		wantErr error
	}{
		{"", ErrInvalidArgument},
		{"+", ErrInvalidArgument},
		{"-", ErrInvalidArgument},
		{"1.", ErrInvalidArgument},
		{".5", ErrInvalidArgument},
		{"1e", ErrInvalidArgument},
		{"1e+", ErrInvalidArgument},
		{"abc", ErrInvalidArgument},
		{"1.2.3", ErrInvalidArgument},
		{"12a", ErrInvalidArgument},
		{" 1", ErrInvalidArgument},
		{"1 ", ErrInvalidArgument},
		{"1e5.0", ErrInvalidArgument},
		{"--1", ErrInvalidArgument},
		{"0x10", ErrInvalidArgument},
		{"1_000", ErrInvalidArgument},
		{"1e99999999999", ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			z := NewInt64(77)
			defer z.Release()
			err := z.SetString(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetString(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if z.String() != "77" {
				t.Errorf("failed SetString(%q) changed value to %s", tt.in, z)
			}
		})
	}
}

func TestDigitCountAndStringLength(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in        string
		digits    int
		strLength int
	}{
		{"0", 1, 1},
		{"9", 1, 1},
		{"-9", 1, 2},
		{"999999999", 9, 9},
		{"1000000000", 10, 10},
		{"-123456789012345678901", 21, 22},
	}
	for _, tt := range tests {
		x := mustInt(t, tt.in)
		if got := x.DigitCount(); got != tt.digits {
			t.Errorf("DigitCount(%s) = %d, want %d", tt.in, got, tt.digits)
		}
		if got := x.StringLength(); got != tt.strLength || got != len(x.String()) {
			t.Errorf("StringLength(%s) = %d, want %d", tt.in, got, tt.strLength)
		}
		x.Release()
	}
}

func TestNthDigit(t *testing.T) {
	t.Parallel()
	x := mustInt(t, "-1234567890123")
	defer x.Release()
	tests := []struct {
		n    int
		want int
	}{
		{0, 3}, {1, 2}, {8, 5}, {9, 4}, {10, 3}, {12, 1}, {13, 0}, {100, 0},
	}
	for _, tt := range tests {
		got, err := x.NthDigit(tt.n)
		if err != nil || got != tt.want {
			t.Errorf("NthDigit(%d) = %d, %v; want %d", tt.n, got, err, tt.want)
		}
	}
	if _, err := x.NthDigit(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NthDigit(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()
	x := mustInt(t, "-4000000000000000000000000000001")
	b, err := x.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var y Int
	if err := y.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if !x.Equal(&y) {
		t.Errorf("text round trip: %s != %s", &y, x)
	}
	if got := string(x.Append([]byte("x="))); got != "x=-4000000000000000000000000000001" {
		t.Errorf("Append = %q", got)
	}
}

func TestNilString(t *testing.T) {
	t.Parallel()
	var x *Int
	if got := x.String(); got != "<nil>" {
		t.Errorf("nil String() = %q", got)
	}
}
