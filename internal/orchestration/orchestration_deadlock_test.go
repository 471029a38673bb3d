package orchestration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// slowProgressReporter consumes updates with a delay, simulating a slow
// terminal.
type slowProgressReporter struct {
	delay time.Duration
}

func (r slowProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		time.Sleep(r.delay)
	}
}

// TestOrchestrationNoDeadlock_MixedBatches verifies that ExecuteBatch
// completes without deadlocking under various batch shapes.
func TestOrchestrationNoDeadlock_MixedBatches(t *testing.T) {
	many := make([]string, 500)
	for i := range many {
		many[i] = fmt.Sprintf("%d * %d", i, i+1)
	}

	testCases := []struct {
		name     string
		exprs    []string
		workers  int
		reporter ProgressReporter
	}{
		{name: "all_instant", exprs: []string{"1", "2", "3"}, workers: 3, reporter: NullProgressReporter{}},
		{name: "mixed_with_errors", exprs: []string{"1", "1/0", "(", "2^10"}, workers: 2, reporter: NullProgressReporter{}},
		{name: "many_one_worker", exprs: many, workers: 1, reporter: NullProgressReporter{}},
		{name: "slow_display", exprs: many[:50], workers: 8, reporter: slowProgressReporter{delay: time.Millisecond}},
		{name: "single_expression", exprs: []string{strings.Repeat("9", 200) + " ^ 3"}, workers: 4, reporter: NullProgressReporter{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ReleaseResults(ExecuteBatch(ctx, tc.exprs, Options{Workers: tc.workers}, tc.reporter, io.Discard))
			}()

			select {
			case <-done:
				// Success - no deadlock
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteBatch did not complete within timeout")
			}
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context during execution does not cause a deadlock.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	exprs := make([]string, 200)
	for i := range exprs {
		exprs[i] = "7 ^ 20000 % 1000000007"
	}

	done := make(chan []EvalResult)
	go func() {
		done <- ExecuteBatch(ctx, exprs, Options{Workers: 1}, slowProgressReporter{delay: time.Millisecond}, io.Discard)
	}()

	// Cancel after a short delay
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		ReleaseResults(results)
		if len(results) != len(exprs) {
			t.Errorf("expected %d results, got %d", len(exprs), len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
