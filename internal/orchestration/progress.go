package orchestration

import (
	"time"

	"github.com/agbru/bigcalc/internal/format"
)

// ProgressAggregator turns the per-expression updates of a batch into a
// smoothed completion estimate. It wraps format.ProgressWithETA so that both
// CLI and TUI share the aggregation setup and update logic.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	total int
}

// NewProgressAggregator creates a new aggregator for a batch of total
// expressions. Returns nil if total <= 0.
func NewProgressAggregator(total int) *ProgressAggregator {
	if total <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state: format.NewProgressWithETA(1),
		total: total,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Completed is the number of expressions finished so far.
	Completed int
	// Failed reports that the expression behind this update failed.
	Failed bool
	// Progress is the completed share of the batch (0.0 to 1.0).
	Progress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	progress, eta := a.state.UpdateWithETA(0, update.Fraction())
	return AggregatedProgress{
		Completed: update.Completed,
		Failed:    update.Err != nil,
		Progress:  progress,
		ETA:       eta,
	}
}

// CalculateAverage returns the current progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// Total returns the size of the batch.
func (a *ProgressAggregator) Total() int {
	return a.total
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
