package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
)

// MetricsModel displays runtime memory statistics and evaluation counters.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	rss          uint64
	evaluations  int
	failures     int
	indicators   *metrics.Indicators
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProcessRSS records the resident set of the process.
func (m *MetricsModel) UpdateProcessRSS(rss uint64) {
	m.rss = rss
}

// RecordEvaluation counts one finished evaluation. ind is nil for failures.
func (m *MetricsModel) RecordEvaluation(ind *metrics.Indicators) {
	m.evaluations++
	if ind == nil {
		m.failures++
		return
	}
	m.indicators = ind
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	heapStr := metricValueStyle.Render(format.FormatBytes(m.alloc) + " / " + format.FormatBytes(m.heapSys))
	gcPauseStr := metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6))
	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heapStr,
		pipe,
		metricLabelStyle.Render("GC:"), gcPauseStr))
	if m.rss > 0 {
		rows.WriteString(pipe + metricLabelStyle.Render("RSS: ") + metricValueStyle.Render(format.FormatBytes(m.rss)))
	}

	colWidth := (m.width - 6) / 2
	evals := fmt.Sprintf("%d", m.evaluations)
	if m.failures > 0 {
		evals += fmt.Sprintf(" (%d failed)", m.failures)
	}
	leftCol := []string{formatMetricCol("Evaluated:", evals, colWidth)}
	rightCol := []string{formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth)}

	if ind := m.indicators; ind != nil {
		sign := "positive"
		if ind.Negative {
			sign = "negative"
		}
		leftCol = append(leftCol,
			formatMetricCol("Digits:", format.FormatNumberString(fmt.Sprint(ind.Digits)), colWidth),
			formatMetricCol("Time:", format.FormatExecutionDuration(ind.Duration), colWidth),
		)
		rightCol = append(rightCol,
			formatMetricCol("Digits/s:", metrics.FormatDigitsPerSecond(ind.DigitsPerSecond), colWidth),
			formatMetricCol("Sign:", sign, colWidth),
		)
	}

	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
