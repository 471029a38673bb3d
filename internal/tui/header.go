package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/format"
)

// HeaderModel renders the top bar: title, version, current activity and
// session time.
type HeaderModel struct {
	startTime time.Time
	busySince time.Time
	version   string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetBusy marks the start or the end of an evaluation.
func (h *HeaderModel) SetBusy(busy bool) {
	if busy {
		h.busySince = time.Now()
	} else {
		h.busySince = time.Time{}
	}
}

// Reset restarts the session timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.busySince = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "bigcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)
	pipe := versionStyle.Render(" | ")

	status := statusDoneStyle.Render("ready")
	if !h.busySince.IsZero() {
		status = statusRunningStyle.Render("evaluating " + format.FormatExecutionDuration(time.Since(h.busySince)))
	}
	threshold := versionStyle.Render(fmt.Sprintf("T=%d", bigint.MulThreshold()))
	session := elapsedStyle.Render("Session: " + format.FormatExecutionDuration(time.Since(h.startTime).Truncate(time.Second)))

	leftPart := title + pipe + status + pipe + threshold
	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(leftPart)-lipgloss.Width(session), 1)

	return headerStyle.Width(h.width).Render(leftPart + strings.Repeat(" ", gap) + session)
}
