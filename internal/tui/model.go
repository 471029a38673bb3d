package tui

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// ansName is the variable holding the last successful value.
const ansName = "ans"

// ExecutionState holds the evaluation-related fields of a TUI session.
type ExecutionState struct {
	cancel     context.CancelFunc
	generation uint64
	busy       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	h := l.height - headerHeight - inputHeight - footerHeight
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// historyWidth returns the width allocated to the history panel.
func (l LayoutManager) historyWidth() int {
	return l.width * HistoryPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.historyWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	body := l.bodyHeight()
	h := MetricsPanelHeight
	if h > body/2 {
		h = body / 2
	}
	return h
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Layout constants for the calculator screen.
const (
	headerHeight             = 1
	inputHeight              = 1
	footerHeight             = 1
	minBodyHeight            = 4
	HistoryPanelWidthPercent = 60
	MetricsPanelHeight       = 7
)

// Model is the root bubbletea model of the terminal calculator.
type Model struct {
	header  HeaderModel
	history HistoryModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel
	input   textinput.Model
	spinner spinner.Model

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	opts      orchestration.Options
	env       expr.Env
	recall    []string
	recallIdx int
	sampler   *sysmon.Sampler
	ref       *programRef
	paused    bool
}

// NewModel creates a calculator session. opts carries the evaluation
// settings; its Env is replaced by the session variables.
func NewModel(parentCtx context.Context, cfg config.AppConfig, opts orchestration.Options, version string) Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "expression, let name = expression, batch FILE, help"
	in.CharLimit = 4096
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusRunningStyle

	keymap := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(version),
		history: NewHistoryModel(),
		metrics: NewMetricsModel(),
		chart:   NewChartModel(),
		footer:  NewFooterModel(keymap.ShortHelp()),
		input:   in,
		spinner: sp,
		keymap:  keymap,
		ExecutionState: ExecutionState{
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		opts:      opts,
		env:       expr.Env{},
		sampler:   sysmon.NewSampler(),
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.chart.batch {
			m.chart.StartBatch(msg.Total)
		}
		m.chart.UpdateProgress(msg)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case EvalDoneMsg:
		m.finishEvaluation(msg)
		return m, nil

	case ErrorMsg:
		m.busy = false
		m.header.SetBusy(false)
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.history.AddError(msg.Input, msg.Err)
		m.footer.SetError(true)
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.sampler), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		m.metrics.UpdateProcessRSS(msg.ProcRSS)
		return m, nil

	case ContextCancelledMsg:
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Cancel):
		if m.busy && m.cancel != nil {
			m.cancel()
			m.history.AddInfo("cancel requested")
		} else {
			m.input.SetValue("")
		}
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		m.clear()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.recallPrevious()
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.recallNext()
		return m, nil

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.history.Update(msg)
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		return m.submit(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches one input line to a command or an evaluation.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	m.remember(line)

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return m, tea.Quit
	case "help":
		m.showHelp()
		return m, nil
	case "clear":
		m.clear()
		return m, nil
	case "vars":
		m.showVars()
		return m, nil
	}

	if m.busy {
		m.history.AddInfo("busy: press esc to cancel the running evaluation")
		return m, nil
	}

	switch fields[0] {
	case "batch":
		if len(fields) != 2 || fields[1] == "-" {
			m.history.AddError(line, apperrors.NewConfigError("usage: batch FILE"))
			return m, nil
		}
		ctx := m.begin()
		return m, tea.Batch(m.spinner.Tick, batchCmd(ctx, m.ref, line, fields[1], m.evalOptions(), m.generation))
	case "let":
		name, src, err := parseLet(strings.TrimSpace(strings.TrimPrefix(line, "let")))
		if err != nil {
			m.history.AddError(line, err)
			return m, nil
		}
		ctx := m.begin()
		return m, tea.Batch(m.spinner.Tick, evalCmd(ctx, line, name, src, m.evalOptions(), m.generation))
	}

	ctx := m.begin()
	return m, tea.Batch(m.spinner.Tick, evalCmd(ctx, line, "", line, m.evalOptions(), m.generation))
}

// parseLet splits "name = expression" and checks the name.
func parseLet(rest string) (string, string, error) {
	name, src, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	src = strings.TrimSpace(src)
	if !ok || src == "" || !expr.IsIdent(name) {
		return "", "", apperrors.NewConfigError("usage: let <name> = <expr>")
	}
	if _, isFunc := expr.FunctionHelp(name); isFunc {
		return "", "", apperrors.NewConfigError("%s is a builtin function", name)
	}
	return name, src, nil
}

// begin marks the session busy and returns the context of the new
// evaluation.
func (m *Model) begin() context.Context {
	m.generation++
	var ctx context.Context
	if m.config.Timeout > 0 {
		ctx, m.cancel = context.WithTimeout(m.parentCtx, m.config.Timeout)
	} else {
		ctx, m.cancel = context.WithCancel(m.parentCtx)
	}
	m.busy = true
	m.header.SetBusy(true)
	return ctx
}

func (m Model) evalOptions() orchestration.Options {
	opts := m.opts
	opts.Env = m.env
	return opts
}

// finishEvaluation records the results of a line and takes ownership of
// their values. Results of a cleared line are only released.
func (m *Model) finishEvaluation(msg EvalDoneMsg) {
	m.busy = false
	m.header.SetBusy(false)
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.chart.batch {
		m.chart.EndBatch()
	}
	if msg.Generation != m.generation {
		orchestration.ReleaseResults(msg.Results)
		return
	}

	label := ""
	if msg.Target != "" || len(msg.Results) == 1 {
		label = msg.Input
	}
	var last *bigint.Int
	for _, res := range msg.Results {
		m.history.AddResult(res, label)
		m.metrics.RecordEvaluation(metrics.Compute(res.Value, res.Duration))
		m.chart.AddDuration(res.Duration)
		if res.Err == nil {
			last = res.Value
		}
	}
	m.exitCode = exitCodeFor(msg.Results)
	m.footer.SetError(m.exitCode != apperrors.ExitSuccess)

	if last != nil {
		if msg.Target != "" {
			m.assign(msg.Target, last.Clone())
		}
		m.assign(ansName, last.Clone())
	}
	orchestration.ReleaseResults(msg.Results)
}

// assign stores v under name, releasing the previous value.
func (m *Model) assign(name string, v *bigint.Int) {
	if old, ok := m.env[name]; ok {
		old.Release()
	}
	m.env[name] = v
}

// clear resets the panels. A running evaluation is cancelled and its result
// discarded; the variables are kept.
func (m *Model) clear() {
	if m.busy && m.cancel != nil {
		m.cancel()
		m.generation++
	}
	m.history.Reset()
	m.chart.Reset()
	m.header.Reset()
	m.metrics = NewMetricsModel()
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.footer.SetError(false)
	m.exitCode = apperrors.ExitSuccess
}

func (m *Model) showHelp() {
	m.history.AddInfo("Commands:")
	m.history.AddInfo("  <expr>               evaluate, the value is stored in ans")
	m.history.AddInfo("  let <name> = <expr>  evaluate and assign")
	m.history.AddInfo("  batch FILE           evaluate one expression per line")
	m.history.AddInfo("  vars                 list variables")
	m.history.AddInfo("  clear                clear the screen")
	m.history.AddInfo("  quit                 leave")
	m.history.AddInfo("Functions: " + strings.Join(expr.FunctionNames(), ", "))
}

func (m *Model) showVars() {
	if len(m.env) == 0 {
		m.history.AddInfo("No variables defined.")
		return
	}
	names := make([]string, 0, len(m.env))
	for name := range m.env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := m.env[name]
		m.history.AddInfo(fmt.Sprintf("  %s = %s (%d digits)", name, format.TruncateDigits(v.String(), 40, 10), v.DigitCount()))
	}
}

// remember appends line to the recall list, skipping immediate repeats.
func (m *Model) remember(line string) {
	if n := len(m.recall); n == 0 || m.recall[n-1] != line {
		m.recall = append(m.recall, line)
	}
	m.recallIdx = len(m.recall)
}

func (m *Model) recallPrevious() {
	if m.recallIdx == 0 {
		return
	}
	m.recallIdx--
	m.input.SetValue(m.recall[m.recallIdx])
	m.input.CursorEnd()
}

func (m *Model) recallNext() {
	if m.recallIdx >= len(m.recall) {
		return
	}
	m.recallIdx++
	if m.recallIdx == len(m.recall) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.recall[m.recallIdx])
	m.input.CursorEnd()
}

// View renders the entire screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.history.View(), rightCol)

	prompt := m.input.View()
	if m.busy {
		prompt = m.spinner.View() + " " + promptStyle.Render("evaluating, esc to cancel")
	}
	prompt = lipgloss.NewStyle().MaxWidth(m.width).Render(prompt)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, prompt, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.input.Width = max(m.width-4, 1)
	m.history.SetSize(m.historyWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// release hands the session variables back to the pool.
func (m *Model) release() {
	for name, v := range m.env {
		v.Release()
		delete(m.env, name)
	}
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code of
// the last evaluated line.
func Run(ctx context.Context, cfg config.AppConfig, opts orchestration.Options, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, opts, version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	model.release()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		if m.cancel != nil {
			m.cancel()
		}
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// evalCmd evaluates one expression off the UI goroutine.
func evalCmd(ctx context.Context, input, target, src string, opts orchestration.Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		res := orchestration.Evaluate(ctx, src, opts)
		return EvalDoneMsg{Input: input, Target: target, Results: []orchestration.EvalResult{res}, Generation: gen}
	}
}

// batchCmd evaluates every line of path, streaming progress to the chart.
func batchCmd(ctx context.Context, ref *programRef, input, path string, opts orchestration.Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		exprs, err := orchestration.LoadExpressions(nil, path, nil)
		if err != nil {
			return ErrorMsg{Input: input, Err: err}
		}
		results := orchestration.ExecuteBatch(ctx, exprs, opts, &TUIProgressReporter{ref: ref}, io.Discard)
		return EvalDoneMsg{Input: input, Results: results, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads host and process stats and returns a SysStatsMsg.
func sampleSysStatsCmd(s *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		st := s.Sample()
		return SysStatsMsg{
			CPUPercent: st.CPUPercent,
			MemPercent: st.MemPercent,
			ProcRSS:    st.ProcRSS,
		}
	}
}

// watchContextCmd waits for the session context to end and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
