package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// runREPL feeds script to a fresh REPL and returns its output.
func runREPL(t *testing.T, config REPLConfig, script string) string {
	t.Helper()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	r := NewREPL(config, orchestration.Options{})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(script))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

func TestREPLEvaluatesAndAssigns(t *testing.T) {
	out := runREPL(t, REPLConfig{}, strings.Join([]string{
		"1 + 2 * 3",
		"ans * 2",
		"let x = 2 ^ 70",
		"let y = x / 1024",
		"y - 2 ^ 60",
		"vars",
		"exit",
	}, "\n"))

	for _, s := range []string{
		"calc> 7\n",
		"calc> 14\n",
		"1180591620717411303424\n",
		"  ans = 0",
		"  x   = 1180591620717411303424",
		"Goodbye!",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
}

func TestREPLErrors(t *testing.T) {
	out := runREPL(t, REPLConfig{MaxDigits: 10}, strings.Join([]string{
		"1 / 0",
		"(1 + 2",
		"nope + 1",
		"10 ^ 20",
		"let 9x = 1",
		"let abs = 1",
		"unset ghost",
	}, "\n"))

	for _, s := range []string{
		"Error: division",
		"Error: ",
		"nope",
		"(limit: 10)",
		"Usage: let <name> = <expr>",
		"abs is a builtin function",
		"Unknown variable: ghost",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
}

func TestREPLSettings(t *testing.T) {
	prev := bigint.SetMulThreshold(0)
	t.Cleanup(func() { bigint.SetMulThreshold(prev) })

	out := runREPL(t, REPLConfig{}, strings.Join([]string{
		"threshold 32",
		"threshold",
		"digits 500",
		"digits",
		"verify",
		"2 ^ 10",
		"status",
		"funcs",
	}, "\n"))

	for _, s := range []string{
		"Karatsuba threshold set to 32 segments",
		"Karatsuba threshold: 32 segments",
		"Digit limit set to 500",
		"Verification: on",
		"1024",
		"Variables:      1",
		"shr10(x, n)",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
	if bigint.MulThreshold() != 32 {
		t.Errorf("MulThreshold = %d, want 32", bigint.MulThreshold())
	}
}

func TestREPLSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mp")

	// The session file is written on exit...
	runREPL(t, REPLConfig{SessionFile: path, MaxDigits: 777}, "let big = 3 ^ 300\nlet small = -5\n")

	// ...and loaded on the next start.
	out := runREPL(t, REPLConfig{SessionFile: path}, "small * 2\nbig % 1000\ndigits\n")
	for _, s := range []string{"Loaded 2 variables", "calc> -10\n", "calc> 1\n", "Digit limit: 777"} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
}

func TestREPLSaveLoadCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manual.mp")
	out := runREPL(t, REPLConfig{}, "let a = 12345678901234567890\nsave "+path+"\nunset a\nload "+path+"\na + 0\n")
	if !strings.Contains(out, "Session saved to") || !strings.Contains(out, "12345678901234567890") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Load failed") {
		t.Errorf("load failed:\n%s", out)
	}
}
