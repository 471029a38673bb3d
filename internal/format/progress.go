package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ─── Progress state ──────────────────────────────────────────────────────────

// ProgressState tracks the completion of a fixed number of independent
// slots, each in [0, 1], and reports their average.
type ProgressState struct {
	mu         sync.Mutex
	progresses []float64
	numSlots   int
}

// NewProgressState creates a state with numSlots slots, all at zero.
func NewProgressState(numSlots int) *ProgressState {
	if numSlots < 0 {
		numSlots = 0
	}
	return &ProgressState{
		progresses: make([]float64, numSlots),
		numSlots:   numSlots,
	}
}

// Update records the progress of slot index. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (s *ProgressState) Update(index int, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.progresses) {
		return
	}
	s.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress over all slots.
func (s *ProgressState) CalculateAverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average()
}

func (s *ProgressState) average() float64 {
	if s.numSlots == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numSlots)
}

// ─── ETA estimation ──────────────────────────────────────────────────────────

const (
	// rateSmoothing is the weight of the newest sample in the progress rate
	// moving average.
	rateSmoothing = 0.3
	// maxETA caps the estimate shown to the user.
	maxETA = 24 * time.Hour
)

// ProgressWithETA extends ProgressState with a smoothed progress rate used
// to estimate the time remaining.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // average progress per second
}

// NewProgressWithETA creates a tracker with numSlots slots.
func NewProgressWithETA(numSlots int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numSlots),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records the progress of slot index and returns the new
// average together with the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)

	p.mu.Lock()
	avg := p.average()
	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		sample := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = sample
		} else {
			p.progressRate = rateSmoothing*sample + (1-rateSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	eta := p.eta(avg)
	p.mu.Unlock()

	return avg, eta
}

// GetETA returns the current estimate without recording progress. It is zero
// until a rate has been observed.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eta(p.average())
}

func (p *ProgressWithETA) eta(avg float64) time.Duration {
	if p.progressRate <= 0 || avg <= 0 {
		return 0
	}
	if avg >= 1 {
		return 0
	}
	secs := (1 - avg) / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// FormatETA renders an estimate compactly: "45s", "2m30s", "1h15m".
// A non-positive estimate reads "calculating...".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a bar of length cells, filled in proportion to progress.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  50.00% ETA: 30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
