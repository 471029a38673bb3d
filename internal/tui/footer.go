package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key hints and the sampling state.
type FooterModel struct {
	bindings []key.Binding
	paused   bool
	lastErr  bool
	width    int
}

// NewFooterModel creates a footer listing the given bindings.
func NewFooterModel(bindings []key.Binding) FooterModel {
	return FooterModel{bindings: bindings}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused shows whether stats sampling is paused.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetError flags that the last evaluation failed.
func (f *FooterModel) SetError(e bool) { f.lastErr = e }

// View renders the footer.
func (f FooterModel) View() string {
	parts := make([]string, 0, len(f.bindings))
	for _, b := range f.bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	line := " " + strings.Join(parts, footerDescStyle.Render(" • "))

	switch {
	case f.lastErr:
		line += "  " + statusErrorStyle.Render("last: error")
	case f.paused:
		line += "  " + statusPausedStyle.Render("stats paused")
	}
	if f.width <= 0 {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(f.width).Render(line)
}
