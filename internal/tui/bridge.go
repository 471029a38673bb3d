package tui

import (
	"io"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/orchestration"
)

// programRef lets goroutines started by commands reach the running program.
// The model is copied on every Update, so it holds a pointer to this.
type programRef struct {
	p atomic.Pointer[tea.Program]
}

func (r *programRef) SetProgram(p *tea.Program) { r.p.Store(p) }

// Send delivers msg to the program, or drops it before the program starts.
func (r *programRef) Send(msg tea.Msg) {
	if p := r.p.Load(); p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards batch progress to the calculator as
// ProgressMsg values.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, total int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(total)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Completed: ap.Completed,
			Total:     total,
			Failed:    ap.Failed,
			Progress:  ap.Progress,
			ETA:       ap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// exitCodeFor returns the exit code of the last failed result, or success.
func exitCodeFor(results []orchestration.EvalResult) int {
	code := apperrors.ExitSuccess
	for _, res := range results {
		if res.Err != nil {
			code = apperrors.ExitCodeFor(res.Err)
		}
	}
	return code
}
