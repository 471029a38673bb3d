package bigint

import (
	"errors"
	"strings"
	"testing"
)

func TestMulPow10(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    string
		n    int
		want string
	}{
		{"0", 50, "0"},
		{"7", 0, "7"},
		{"7", 1, "70"},
		{"-7", 9, "-7000000000"},
		{"123456789", 10, "1234567890000000000"},
		{"999999999", 18, "999999999" + strings.Repeat("0", 18)},
		{"123", -1, "12"},
		{"-123", -1, "-13"},
	}
	for _, tt := range tests {
		x := mustInt(t, tt.x)
		if got := x.MulPow10(tt.n).String(); got != tt.want {
			t.Errorf("%s * 10^%d = %s, want %s", tt.x, tt.n, got, tt.want)
		}
		x.Release()
	}
}

func TestDivPow10(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    string
		n    int
		want string
	}{
		{"0", 3, "0"},
		{"12345", 0, "12345"},
		{"12345", 2, "123"},
		{"-12345", 2, "-124"},
		{"-12300", 2, "-123"},
		{"15", 1, "1"},
		{"-15", 1, "-2"},
		{"999", 5, "0"},
		{"-999", 5, "-1"},
		{"-1000000000000000000", 9, "-1000000000"},
		{"-1000000000000000001", 9, "-1000000001"},
		{"-1000000000000000000", 18, "-1"},
		{"-1000000000000000000", 19, "-1"},
		{"123456789123456789", 27, "0"},
		{"5", -2, "500"},
	}
	for _, tt := range tests {
		x := mustInt(t, tt.x)
		if got := x.DivPow10(tt.n).String(); got != tt.want {
			t.Errorf("%s / 10^%d = %s, want %s", tt.x, tt.n, got, tt.want)
		}
		x.Release()
	}
}

func TestModPow10(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    string
		n    int
		want string
	}{
		{"123456789123", 0, "0"},
		{"123456789123", 2, "23"},
		{"-123456789123", 4, "-9123"},
		{"123456789123", 9, "456789123"},
		{"123000000456", 9, "456"},
		{"123000000000", 9, "0"},
		{"123456789123", 12, "123456789123"},
		{"123456789123", 100, "123456789123"},
	}
	for _, tt := range tests {
		x := mustInt(t, tt.x)
		if err := x.ModPow10(tt.n); err != nil {
			t.Fatal(err)
		}
		if got := x.String(); got != tt.want {
			t.Errorf("%s mod 10^%d = %s, want %s", tt.x, tt.n, got, tt.want)
		}
		x.Release()
	}
	if err := NewInt64(1).ModPow10(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ModPow10(-1) error = %v", err)
	}
}
