package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads from flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "timeout")
	Short     string   // short flag without "-" (e.g., "q")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	Section   string   // fish comment section the flag is listed under
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Show version information", Section: "Help and version"},
	{Long: "batch", Help: "File with one expression per line", IsFile: true, ValueName: "file", Section: "Evaluation"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m", "1h"}, ValueName: "duration", Section: "Evaluation"},
	{Long: "max-digits", Help: "Digit limit for intermediate values", Values: []string{"0", "1000000", "10000000", "100000000"}, ValueName: "digits", Section: "Evaluation"},
	{Long: "workers", Short: "j", Help: "Concurrent batch evaluations", Values: []string{"1", "2", "4", "8"}, ValueName: "count", Section: "Evaluation"},
	{Long: "verify", Help: "Cross-check results against math/big", Section: "Evaluation"},
	{Long: "mul-threshold", Short: "t", Help: "Multiplication split threshold", Values: []string{"16", "32", "48", "64", "96"}, ValueName: "segments", Section: "Evaluation"},
	{Long: "config", Help: "TOML configuration file", IsFile: true, ValueName: "file", Section: "Configuration"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level", Section: "Configuration"},
	{Long: "theme", Help: "Color palette", Values: []string{"dark", "light"}, ValueName: "name", Section: "Configuration"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", ValueName: "address", Section: "Configuration"},
	{Long: "no-color", Help: "Disable colored output", Section: "Configuration"},
	{Long: "calibrate", Help: "Run calibration mode", Section: "Calibration"},
	{Long: "auto-calibrate", Help: "Enable auto-calibration", Section: "Calibration"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file", Section: "Calibration"},
	{Long: "repl", Help: "Start the interactive session", Section: "Interactive modes"},
	{Long: "tui", Help: "Start the terminal calculator", Section: "Interactive modes"},
	{Long: "session", Help: "REPL session file", IsFile: true, ValueName: "file", Section: "Interactive modes"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file", Section: "Output options"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts", Section: "Output options"},
	{Long: "verbose", Short: "v", Help: "Print full values", Section: "Output options"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell", Section: "Completion"},
}

// zshHelpOverrides provides shell-specific help text overrides for zsh.
var zshHelpOverrides = map[string]string{
	"mul-threshold": "Multiplication split threshold in segments",
	"max-digits":    "Digit limit for intermediate values (0 = none)",
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// flagKey returns the identifier used for lookups: Long name if present, else Short.
func flagKey(f FlagCompletion) string {
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

// flagForms returns the dash-prefixed spellings of a flag.
func flagForms(f FlagCompletion) []string {
	var forms []string
	if f.Long != "" {
		forms = append(forms, "--"+f.Long)
	}
	if f.Short != "" {
		forms = append(forms, "-"+f.Short)
	}
	return forms
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, flagForms(f)...)
	}

	var caseBody strings.Builder
	writeCase := func(patterns []string, body string) {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(patterns, "|"))
		caseBody.WriteString(")\n            ")
		caseBody.WriteString(body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	// File flags share one entry.
	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			filePatterns = append(filePatterns, flagForms(f)...)
		}
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}
	for _, f := range flagRegistry {
		if !f.IsFile && len(f.Values) > 0 {
			writeCase(flagForms(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}

	script := fmt.Sprintf(`# Bash completion script for bigcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_bigcalc_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _bigcalc_completions bigcalc
`, strings.Join(opts, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef bigcalc

# Zsh completion script for bigcalc
# Add this to your ~/.zshrc or place in $fpath

_bigcalc() {
    _arguments -s \
%s \
        '*:expression:'
}

_bigcalc "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshHelp returns the help text for a flag in zsh, using an override if available.
func zshHelp(f FlagCompletion) string {
	if override, ok := zshHelpOverrides[flagKey(f)]; ok {
		return override
	}
	return f.Help
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	help := zshHelp(f)

	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	lines := []string{
		"# Fish completion script for bigcalc",
		"# Add this to ~/.config/fish/completions/bigcalc.fish",
		"",
		"# Disable file completion by default",
		"complete -c bigcalc -f",
		"",
	}

	for _, section := range fishSections() {
		lines = append(lines, "# "+section)
		for _, f := range flagRegistry {
			if f.Section == section {
				lines = append(lines, fishCompleteLine(f))
			}
		}
		lines = append(lines, "")
	}

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishSections returns the registry sections in first-appearance order.
func fishSections() []string {
	var sections []string
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		if !seen[f.Section] {
			seen[f.Section] = true
			sections = append(sections, f.Section)
		}
	}
	return sections
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c bigcalc"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		if f.Long != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))
		}
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		if f.IsFile || len(f.Values) == 0 {
			continue
		}
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = fmt.Sprintf("'%s'", v)
		}
		switchEntries = append(switchEntries, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quoted, ", ")))
	}

	script := fmt.Sprintf(`# PowerShell completion script for bigcalc
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'bigcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion powershell generation failed: %w", err)
	}
	return nil
}
