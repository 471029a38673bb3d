// Package ui holds the color themes shared by the command-line output, the
// REPL and the terminal calculator. CLI code prints the escape codes
// returned by the Color accessors; the TUI builds lipgloss styles from the
// matching TUITheme.
package ui
