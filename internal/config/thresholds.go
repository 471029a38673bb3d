package config

import (
	"runtime"

	"github.com/agbru/bigcalc/internal/bigint"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flag (--mul-threshold)
//   2. Environment variable (BIGCALC_MUL_THRESHOLD)
//   3. TOML config file (mul_threshold)
//   4. Cached calibration profile (~/.bigcalc_calibration.json)
//   5. Adaptive hardware estimation (this file)
//   6. Static default in bigint.DefaultMulThreshold

// ApplyAdaptiveThresholds fills the multiplication threshold from a hardware
// heuristic when no earlier source of the chain provided one.
//
// The function only modifies a threshold left at its zero default, preserving
// any user-specified override.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.MulThreshold == 0 {
		cfg.MulThreshold = EstimateOptimalMulThreshold()
	}
	return cfg
}

// EstimateOptimalMulThreshold provides a heuristic estimate of the schoolbook
// to divide-and-conquer crossover, in base-10^9 segments, without running
// benchmarks.
//
// Schoolbook accumulates segment products in 64-bit words, so 32-bit targets
// pay for every product with multi-word arithmetic and cross over earlier.
func EstimateOptimalMulThreshold() int {
	wordSize := 32 << (^uint(0) >> 63)
	if wordSize == 32 {
		return 48
	}
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return bigint.DefaultMulThreshold
	default:
		return 64
	}
}
