package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/ui"
)

// Panel styles. They depend on the ui theme, so Run rebuilds them once the
// theme has been chosen.
var (
	panelStyle  lipgloss.Style
	headerStyle lipgloss.Style
	titleStyle  lipgloss.Style
	promptStyle lipgloss.Style

	dimStyle     lipgloss.Style
	versionStyle lipgloss.Style
	elapsedStyle lipgloss.Style

	historyInputStyle lipgloss.Style
	resultStyle       lipgloss.Style
	errorStyle        lipgloss.Style

	metricLabelStyle  lipgloss.Style
	metricValueStyle  lipgloss.Style
	cpuSparklineStyle lipgloss.Style
	memSparklineStyle lipgloss.Style

	chartBarStyle   lipgloss.Style
	chartEmptyStyle lipgloss.Style

	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.TerminalColor) lipgloss.Style {
	return fg(c).Bold(true)
}

func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = fg(t.Text).
		Background(t.Bg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	headerStyle = bold(t.Accent).Background(t.Bg).Padding(0, 1)
	titleStyle = bold(t.Accent)
	promptStyle = bold(t.Accent)

	dimStyle = fg(t.Dim)
	versionStyle = fg(t.Dim)
	elapsedStyle = fg(t.Accent)

	historyInputStyle = fg(t.Info)
	resultStyle = fg(t.Success)
	errorStyle = fg(t.Error)

	metricLabelStyle = fg(t.Dim)
	metricValueStyle = bold(t.Accent)
	cpuSparklineStyle = fg(t.Accent)
	memSparklineStyle = fg(t.Warning)

	chartBarStyle = fg(t.Accent)
	chartEmptyStyle = fg(t.Dim)

	footerKeyStyle = bold(t.Accent)
	footerDescStyle = fg(t.Dim)
	statusRunningStyle = bold(t.Success)
	statusPausedStyle = bold(t.Warning)
	statusDoneStyle = bold(t.Accent)
	statusErrorStyle = bold(t.Error)
}
