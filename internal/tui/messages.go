package tui

import (
	"time"

	"github.com/agbru/bigcalc/internal/orchestration"
)

// TickMsg drives the periodic stats sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a host-wide CPU and memory sample together with the
// resident set of the calculator process.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	ProcRSS    uint64
}

// ProgressMsg reports batch progress.
type ProgressMsg struct {
	Completed int
	Total     int
	Failed    bool
	Progress  float64
	ETA       time.Duration
}

// ProgressDoneMsg is sent once the batch progress channel is closed.
type ProgressDoneMsg struct{}

// EvalDoneMsg delivers the results of one submitted line. Target names the
// variable assigned by a "let" line.
type EvalDoneMsg struct {
	Input      string
	Target     string
	Results    []orchestration.EvalResult
	Generation uint64
}

// ErrorMsg reports a failure that produced no result, such as an
// unreadable batch file.
type ErrorMsg struct {
	Input string
	Err   error
}

// ContextCancelledMsg is sent when the session context ends, as on SIGINT.
type ContextCancelledMsg struct {
	Err error
}
