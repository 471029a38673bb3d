package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Theme holds the ANSI escape code printed before each kind of output.
// An empty code prints nothing, so a theme with every field empty disables
// color without changing any call site.
type Theme struct {
	Name string

	// Primary marks prompts and headings.
	Primary string
	// Secondary marks labels such as "Digits:" and "Time:".
	Secondary string
	// Success marks computed values and completed operations.
	Success string
	// Warning marks highlighted numbers and cautions.
	Warning string
	// Error marks failed evaluations.
	Error string
	// Info marks counts and hints.
	Info string

	Bold      string
	Underline string
	Reset     string
}

// sgr builds a Select Graphic Rendition escape sequence.
func sgr(params ...string) string {
	return "\033[" + strings.Join(params, ";") + "m"
}

// fg256 returns the escape code for a foreground color of the 256-color palette.
func fg256(n int) string {
	return sgr("38", "5", fmt.Sprint(n))
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   fg256(39),
		Secondary: fg256(80),
		Success:   fg256(114),
		Warning:   fg256(221),
		Error:     fg256(203),
		Info:      fg256(176),
		Bold:      sgr("1"),
		Underline: sgr("4"),
		Reset:     sgr("0"),
	}

	// LightTheme uses darker tones that stay readable on light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   fg256(25),
		Secondary: fg256(30),
		Success:   fg256(28),
		Warning:   fg256(130),
		Error:     fg256(160),
		Info:      fg256(90),
		Bold:      sgr("1"),
		Underline: sgr("4"),
		Reset:     sgr("0"),
	}

	// NoColorTheme prints no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	themeMutex   sync.RWMutex
	currentTheme = DarkTheme
)

// TUITheme is the lipgloss palette of the terminal calculator.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#101418"),
		Text:    lipgloss.Color("#D8DEE9"),
		Border:  lipgloss.Color("#3B7EA1"),
		Accent:  lipgloss.Color("#5FAFFF"),
		Success: lipgloss.Color("#87D787"),
		Warning: lipgloss.Color("#FFD75F"),
		Error:   lipgloss.Color("#FF5F5F"),
		Dim:     lipgloss.Color("#5C6370"),
		Info:    lipgloss.Color("#D787D7"),
	}

	LightTUITheme = TUITheme{
		Bg:      lipgloss.Color("#FAFAFA"),
		Text:    lipgloss.Color("#24292E"),
		Border:  lipgloss.Color("#0366D6"),
		Accent:  lipgloss.Color("#005FAF"),
		Success: lipgloss.Color("#22863A"),
		Warning: lipgloss.Color("#B08800"),
		Error:   lipgloss.Color("#CB2431"),
		Dim:     lipgloss.Color("#959DA5"),
		Info:    lipgloss.Color("#6F42C1"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Bg:      lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// ThemeByName returns the theme called name, case-insensitively.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(name) {
	case "dark", "":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	case "none":
		return NoColorTheme, true
	}
	return Theme{}, false
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// GetCurrentTUITheme returns the TUI palette paired with the active theme.
func GetCurrentTUITheme() TUITheme {
	switch GetCurrentTheme().Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// InitTheme activates the named theme unless color is disabled. Color is
// disabled by noColor, by a non-empty NO_COLOR environment variable
// (https://no-color.org/) or when fatih/color finds that stdout is not a
// terminal. color.NoColor is kept in sync with the outcome. Unknown names
// fall back to the dark theme.
func InitTheme(name string, noColor bool) {
	if v, ok := os.LookupEnv("NO_COLOR"); ok && v != "" {
		noColor = true
	}
	if noColor || color.NoColor {
		color.NoColor = true
		SetCurrentTheme(NoColorTheme)
		return
	}
	t, ok := ThemeByName(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}
