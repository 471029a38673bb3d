package metrics

import (
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	if Compute(nil, time.Second) != nil {
		t.Error("Compute(nil) should be nil")
	}

	v := bigint.New()
	if err := v.SetString("-123456789012"); err != nil {
		t.Fatal(err)
	}
	ind := Compute(v, 2*time.Second)
	if ind.Digits != 12 {
		t.Errorf("Digits = %d, want 12", ind.Digits)
	}
	if !ind.Negative {
		t.Error("Negative should be set")
	}
	if ind.DigitsPerSecond != 6 {
		t.Errorf("DigitsPerSecond = %v, want 6", ind.DigitsPerSecond)
	}

	if got := Compute(v, 0).DigitsPerSecond; got != 0 {
		t.Errorf("zero duration rate = %v, want 0", got)
	}
}

func TestFormatDigitsPerSecond(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1.50K"},
		{3.2e6, "3.20M"},
		{1e9, "1.00G"},
	}
	for _, tt := range tests {
		if got := FormatDigitsPerSecond(tt.in); got != tt.want {
			t.Errorf("FormatDigitsPerSecond(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
