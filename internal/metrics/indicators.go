package metrics

import (
	"fmt"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
)

// Indicators summarizes the throughput of one finished evaluation.
type Indicators struct {
	Digits          int
	Negative        bool
	Duration        time.Duration
	DigitsPerSecond float64
}

// Compute derives the indicators of a result produced in d. A nil value
// yields nil.
func Compute(value *bigint.Int, d time.Duration) *Indicators {
	if value == nil {
		return nil
	}
	ind := &Indicators{
		Digits:   value.DigitCount(),
		Negative: value.Sign() < 0,
		Duration: d,
	}
	if secs := d.Seconds(); secs > 0 {
		ind.DigitsPerSecond = float64(ind.Digits) / secs
	}
	return ind
}

// FormatDigitsPerSecond renders a rate with an SI suffix: "950", "1.50K",
// "3.20M", "1.00G".
func FormatDigitsPerSecond(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fG", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
