package ui

// Color accessors return the escape code of the active theme for a role.
// They are meant for fmt.Printf-style composition:
//
//	fmt.Fprintf(out, "%sdone%s\n", ui.ColorGreen(), ui.ColorReset())

// ColorRed returns the escape code for errors.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the escape code for successful outcomes.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the escape code for warnings and highlighted values.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the escape code for primary accents.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the escape code for informational text.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the escape code for secondary accents such as labels.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the escape code for bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the escape code for underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the escape code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }
