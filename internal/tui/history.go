package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
)

const (
	// historyEdgeDigits is the number of leading and trailing digits kept
	// when a value does not fit the panel.
	historyEdgeDigits = 20
	// maxHistoryEntries bounds the scrollback.
	maxHistoryEntries = 500
)

type entryKind int

const (
	entryResult entryKind = iota
	entryError
	entryInfo
)

type historyEntry struct {
	kind     entryKind
	input    string
	output   string
	digits   int
	duration time.Duration
	at       time.Time
}

// HistoryModel is the scrollable list of evaluated lines.
type HistoryModel struct {
	entries  []historyEntry
	viewport viewport.Model
	width    int
	height   int
}

// NewHistoryModel creates an empty history panel.
func NewHistoryModel() HistoryModel {
	return HistoryModel{viewport: viewport.New(0, 0)}
}

// SetSize updates the panel dimensions and re-renders the content.
func (h *HistoryModel) SetSize(w, height int) {
	h.width = w
	h.height = height
	h.viewport.Width = max(w-4, 0)
	h.viewport.Height = max(height-3, 0)
	h.refresh()
}

// AddResult appends an evaluation result. label overrides the expression
// text shown for the input, as for "let" lines.
func (h *HistoryModel) AddResult(res orchestration.EvalResult, label string) {
	if label == "" {
		label = res.Expr
	}
	if res.Err != nil {
		h.add(historyEntry{kind: entryError, input: label, output: res.Err.Error(), duration: res.Duration})
		return
	}
	h.add(historyEntry{
		kind:     entryResult,
		input:    label,
		output:   res.Value.String(),
		digits:   res.Value.DigitCount(),
		duration: res.Duration,
	})
}

// AddError appends a failure that produced no result.
func (h *HistoryModel) AddError(input string, err error) {
	h.add(historyEntry{kind: entryError, input: input, output: err.Error()})
}

// AddInfo appends a plain informational line.
func (h *HistoryModel) AddInfo(text string) {
	h.add(historyEntry{kind: entryInfo, output: text})
}

// Len returns the number of entries.
func (h HistoryModel) Len() int { return len(h.entries) }

// Reset clears the history.
func (h *HistoryModel) Reset() {
	h.entries = nil
	h.refresh()
}

func (h *HistoryModel) add(e historyEntry) {
	e.at = time.Now()
	h.entries = append(h.entries, e)
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}
	h.refresh()
}

// refresh rebuilds the viewport content and scrolls to the newest entry.
func (h *HistoryModel) refresh() {
	h.viewport.SetContent(h.render())
	h.viewport.GotoBottom()
}

func (h HistoryModel) render() string {
	w := h.viewport.Width
	var b strings.Builder
	for i, e := range h.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.kind {
		case entryInfo:
			b.WriteString(dimStyle.Render(fitWidth(e.output, w)))
			continue
		case entryError:
			b.WriteString(historyInputStyle.Render(fitWidth("› "+e.input, w)))
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fitWidth("  ✗ "+e.output, w)))
			continue
		}
		b.WriteString(historyInputStyle.Render(fitWidth("› "+e.input, w)))
		b.WriteString("\n")
		b.WriteString(resultStyle.Render(fitWidth("  = "+fitValue(e.output, w-4), w)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fitWidth(fmt.Sprintf("    %s digits in %s",
			format.FormatNumberString(fmt.Sprint(e.digits)), format.FormatExecutionDuration(e.duration)), w)))
	}
	return b.String()
}

// fitValue shortens a decimal value around an ellipsis so it fits in w
// cells.
func fitValue(v string, w int) string {
	if w <= 0 || len(v) <= w {
		return v
	}
	edge := min(historyEdgeDigits, (w-3)/2)
	if edge <= 0 {
		return v
	}
	return format.TruncateDigits(v, w, edge)
}

// fitWidth truncates s to w display cells, counting wide runes twice.
func fitWidth(s string, w int) string {
	if w <= 0 {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

// Update forwards scroll keys to the viewport.
func (h *HistoryModel) Update(msg tea.Msg) {
	h.viewport, _ = h.viewport.Update(msg)
}

// View renders the history panel.
func (h HistoryModel) View() string {
	title := titleStyle.Render(" History ")
	body := h.viewport.View()
	if len(h.entries) == 0 {
		body = dimStyle.Render("Type an expression and press enter. \"help\" lists commands.")
	}
	return panelStyle.
		Width(max(h.width-2, 0)).
		Height(max(h.height-2, 0)).
		Render(title + "\n" + body)
}
