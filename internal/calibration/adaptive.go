// This file generates the candidate thresholds explored by calibration.

package calibration

import (
	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/config"
)

// ─────────────────────────────────────────────────────────────────────────────
// Candidate Multiplication Thresholds
// ─────────────────────────────────────────────────────────────────────────────

// GenerateThresholds returns the multiplication thresholds, in segments,
// tested by a full calibration. The hardware estimate and the library
// default are always included so the result can only improve on them.
func GenerateThresholds() []int {
	candidates := []int{16, 24, 32, 48, 64, 96, 128, 192, 256}
	return withBaselines(candidates)
}

// GenerateQuickThresholds returns a reduced set for the startup
// auto-calibration.
func GenerateQuickThresholds() []int {
	return withBaselines([]int{32, 64, 128})
}

// withBaselines inserts the estimate and the default into a sorted
// candidate list, skipping duplicates.
func withBaselines(candidates []int) []int {
	for _, b := range []int{EstimateOptimalMulThreshold(), bigint.DefaultMulThreshold} {
		candidates = insertSorted(candidates, b)
	}
	return candidates
}

func insertSorted(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return s
		}
		if x > v {
			s = append(s, 0)
			copy(s[i+1:], s[i:])
			s[i] = v
			return s
		}
	}
	return append(s, v)
}

// ─────────────────────────────────────────────────────────────────────────────
// Benchmark Operand Sizes
// ─────────────────────────────────────────────────────────────────────────────

// operandDigits returns the operand size used to time thresholds. Operands
// span several split levels of the largest candidate so every threshold
// changes the recursion shape.
func operandDigits(thresholds []int, quick bool) int {
	largest := thresholds[len(thresholds)-1]
	levels := 8
	if quick {
		levels = 4
	}
	return largest * levels * 9
}

// EstimateOptimalMulThreshold delegates to config.EstimateOptimalMulThreshold.
func EstimateOptimalMulThreshold() int { return config.EstimateOptimalMulThreshold() }
