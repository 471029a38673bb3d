package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// lastResultVar holds the value of the most recent successful evaluation.
const lastResultVar = "ans"

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout is the maximum duration for each evaluation.
	Timeout time.Duration
	// MaxDigits caps the size of every value; zero disables the cap.
	MaxDigits int64
	// Verify cross-checks results against math/big.
	Verify bool
	// Verbose prints values in full.
	Verbose bool
	// SessionFile, when set, is loaded at start and saved at exit.
	SessionFile string
}

// REPL represents an interactive calculator session. Variables persist
// between lines and can be saved to a session file.
type REPL struct {
	config REPLConfig
	env    expr.Env
	in     io.Reader
	out    io.Writer
	opts   orchestration.Options
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - config: REPL configuration.
//   - opts: Evaluation options; Env, MaxDigits and Verify are managed by the REPL.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(config REPLConfig, opts orchestration.Options) *REPL {
	return &REPL{
		config: config,
		env:    make(expr.Env),
		in:     os.Stdin,
		out:    os.Stdout,
		opts:   opts,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Env returns the current variables. They remain owned by the REPL.
func (r *REPL) Env() expr.Env {
	return r.env
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached. The session file, if any, is loaded
// first and saved on the way out.
func (r *REPL) Start() {
	defer releaseEnv(r.env)

	r.printBanner()
	if r.config.SessionFile != "" {
		if err := r.load(r.config.SessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(r.out, "%sCould not load session: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		}
	}
	fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n\n", ui.ColorYellow(), ui.ColorReset())

	sc := bufio.NewScanner(r.in)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"calc> "+ui.ColorReset())

		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			r.saveOnExit()
			return
		}

		input := strings.TrimSpace(sc.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}

		if !r.processCommand(input) {
			r.saveOnExit()
			return // Exit command received
		}
	}
}

func (r *REPL) saveOnExit() {
	if r.config.SessionFile == "" {
		return
	}
	if err := r.save(r.config.SessionFile); err != nil {
		fmt.Fprintf(r.out, "%sCould not save session: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🔢 bigcalc - Interactive Mode%s                        %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<expr>%s              - Evaluate an expression; the value is stored in %s\n", ui.ColorYellow(), ui.ColorReset(), lastResultVar)
	fmt.Fprintf(r.out, "  %slet <name> = <expr>%s - Assign a variable\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sunset <name>%s        - Remove a variable\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %svars%s                - List variables\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfuncs%s               - List builtin functions\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sthreshold [n]%s       - Show or set the Karatsuba threshold\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdigits [n]%s          - Show or set the digit limit (0 = none)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sverify%s              - Toggle verification against math/big\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssave <file>%s         - Save variables and settings\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sload <file>%s         - Load a saved session\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s              - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s         - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "let":
		r.cmdLet(strings.TrimSpace(input[len(parts[0]):]))
	case "unset":
		r.cmdUnset(args)
	case "vars":
		r.cmdVars()
	case "funcs":
		r.cmdFuncs()
	case "threshold":
		r.cmdThreshold(args)
	case "digits":
		r.cmdDigits(args)
	case "verify":
		r.config.Verify = !r.config.Verify
		fmt.Fprintf(r.out, "Verification: %s%s%s\n", ui.ColorGreen(), onOff(r.config.Verify), ui.ColorReset())
	case "save":
		r.cmdSave(args)
	case "load":
		r.cmdLoad(args)
	case "status":
		r.cmdStatus()
	case "help", "?":
		r.printHelp()
	case "exit", "quit":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if v, ok := r.evaluate(input); ok {
			r.assign(lastResultVar, v)
		}
	}

	return true
}

// evaluate runs src against the current variables and prints the outcome.
// The returned value is owned by the caller.
func (r *REPL) evaluate(src string) (*bigint.Int, bool) {
	timeout := r.config.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := r.opts
	opts.Env = r.env
	opts.MaxDigits = r.config.MaxDigits
	opts.Verify = r.config.Verify

	res := orchestration.Evaluate(ctx, src, opts)
	if res.Err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), errorCause(res.Err), ui.ColorReset())
		return nil, false
	}
	r.printValue(res)
	return res.Value, true
}

func (r *REPL) printValue(res orchestration.EvalResult) {
	s := res.Value.String()
	if !r.config.Verbose {
		s = format.TruncateDigits(s, TruncationLimit, DisplayEdges)
	}
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorGreen(), s, ui.ColorReset())
	if digits := res.Value.DigitCount(); digits > 9 || res.Duration > 100*time.Millisecond {
		fmt.Fprintf(r.out, "  %s(%s digits, %s)%s\n", ui.ColorCyan(),
			format.FormatNumberString(strconv.Itoa(digits)), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	}
}

// assign stores v under name, releasing the previous value.
func (r *REPL) assign(name string, v *bigint.Int) {
	if old, ok := r.env[name]; ok {
		old.Release()
	}
	r.env[name] = v
}

// cmdLet handles "let name = expr".
func (r *REPL) cmdLet(rest string) {
	name, src, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	src = strings.TrimSpace(src)
	if !ok || src == "" || !expr.IsIdent(name) {
		fmt.Fprintf(r.out, "%sUsage: let <name> = <expr>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if _, isFunc := expr.FunctionHelp(name); isFunc {
		fmt.Fprintf(r.out, "%s%s is a builtin function%s\n", ui.ColorRed(), name, ui.ColorReset())
		return
	}
	if v, ok := r.evaluate(src); ok {
		r.assign(name, v)
	}
}

func (r *REPL) cmdUnset(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: unset <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	v, ok := r.env[args[0]]
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown variable: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	v.Release()
	delete(r.env, args[0])
}

// cmdVars lists the variables in name order.
func (r *REPL) cmdVars() {
	if len(r.env) == 0 {
		fmt.Fprintln(r.out, "No variables defined.")
		return
	}
	names := make([]string, 0, len(r.env))
	width := 0
	for name := range r.env {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)
	for _, name := range names {
		v := r.env[name]
		fmt.Fprintf(r.out, "  %s%-*s%s = %s %s(%d digits)%s\n",
			ui.ColorYellow(), width, name, ui.ColorReset(),
			format.TruncateDigits(v.String(), 40, 10),
			ui.ColorCyan(), v.DigitCount(), ui.ColorReset())
	}
}

func (r *REPL) cmdFuncs() {
	for _, name := range expr.FunctionNames() {
		help, _ := expr.FunctionHelp(name)
		fmt.Fprintf(r.out, "  %s\n", help)
	}
}

func (r *REPL) cmdThreshold(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Karatsuba threshold: %s%d%s segments\n", ui.ColorCyan(), bigint.MulThreshold(), ui.ColorReset())
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintf(r.out, "%sInvalid threshold: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	bigint.SetMulThreshold(n)
	fmt.Fprintf(r.out, "Karatsuba threshold set to %s%d%s segments\n", ui.ColorGreen(), bigint.MulThreshold(), ui.ColorReset())
}

func (r *REPL) cmdDigits(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Digit limit: %s%s%s\n", ui.ColorCyan(), digitLimit(r.config.MaxDigits), ui.ColorReset())
		return
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n < 0 {
		fmt.Fprintf(r.out, "%sInvalid digit limit: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.MaxDigits = n
	fmt.Fprintf(r.out, "Digit limit set to %s%s%s\n", ui.ColorGreen(), digitLimit(n), ui.ColorReset())
}

func digitLimit(n int64) string {
	if n <= 0 {
		return "none"
	}
	return format.FormatNumberString(strconv.FormatInt(n, 10))
}

func (r *REPL) cmdSave(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: save <file>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if err := r.save(args[0]); err != nil {
		fmt.Fprintf(r.out, "%sSave failed: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Session saved to %s%s%s\n", ui.ColorCyan(), args[0], ui.ColorReset())
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: load <file>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if err := r.load(args[0]); err != nil {
		fmt.Fprintf(r.out, "%sLoad failed: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
}

func (r *REPL) save(path string) error {
	return SaveSession(path, NewSession(r.env, bigint.MulThreshold(), r.config.MaxDigits, r.config.Verify))
}

// load replaces the variables and settings with those of a saved session.
func (r *REPL) load(path string) error {
	s, err := LoadSession(path)
	if err != nil {
		return err
	}
	env, err := s.Env()
	if err != nil {
		return err
	}
	releaseEnv(r.env)
	r.env = env
	r.config.MaxDigits = s.MaxDigits
	r.config.Verify = s.Verify
	if s.MulThreshold > 0 {
		bigint.SetMulThreshold(s.MulThreshold)
	}
	fmt.Fprintf(r.out, "Loaded %s%d%s variables from %s\n", ui.ColorGreen(), len(env), ui.ColorReset(), path)
	return nil
}

// cmdStatus displays current REPL configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Digit limit:    %s%s%s\n", ui.ColorCyan(), digitLimit(r.config.MaxDigits), ui.ColorReset())
	fmt.Fprintf(r.out, "  Threshold:      %s%d%s segments\n", ui.ColorCyan(), bigint.MulThreshold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Verification:   %s%s%s\n", ui.ColorCyan(), onOff(r.config.Verify), ui.ColorReset())
	fmt.Fprintf(r.out, "  Variables:      %s%d%s\n", ui.ColorCyan(), len(r.env), ui.ColorReset())
	fmt.Fprintln(r.out)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
