// internal/tui/progress.go
// Package tui renders benchmark progress as a live terminal view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/benchmark"
	"github.com/mwiater/lmbench/internal/metrics"
)

var (
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type benchmarkStartedMsg struct {
	models []string
	runs   int
}

type modelStartedMsg struct{ model string }

type modelSkippedMsg struct {
	model  string
	reason string
}

type runCompletedMsg struct {
	model string
	run   int
	avg   float64
}

type modelCompletedMsg struct {
	model   string
	summary metrics.ModelSummary
}

type benchmarkDoneMsg struct{ err error }

type modelState struct {
	name      string
	started   bool
	completed int
	avg       float64
	skipped   bool
	reason    string
	done      bool
	summary   metrics.ModelSummary
}

// Model is the bubbletea model for the live benchmark view.
type Model struct {
	spinner  spinner.Model
	progress progress.Model
	cancel   context.CancelFunc

	runs     int
	order    []string
	states   map[string]*modelState
	err      error
	finished bool
	quitting bool
}

func newModel(cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 30

	return Model{
		spinner:  s,
		progress: p,
		cancel:   cancel,
		states:   make(map[string]*modelState),
	}
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles benchmark events, key presses, and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case benchmarkStartedMsg:
		m.runs = msg.runs
		for _, name := range msg.models {
			if _, ok := m.states[name]; !ok {
				m.order = append(m.order, name)
				m.states[name] = &modelState{name: name}
			}
		}
		return m, nil

	case modelStartedMsg:
		if state, ok := m.states[msg.model]; ok {
			state.started = true
		}
		return m, nil

	case modelSkippedMsg:
		if state, ok := m.states[msg.model]; ok {
			state.skipped = true
			state.reason = msg.reason
		}
		return m, nil

	case runCompletedMsg:
		if state, ok := m.states[msg.model]; ok {
			state.completed = msg.run
			state.avg = msg.avg
		}
		return m, nil

	case modelCompletedMsg:
		if state, ok := m.states[msg.model]; ok {
			state.done = true
			state.summary = msg.summary
		}
		return m, nil

	case benchmarkDoneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders one line per model.
func (m Model) View() string {
	if m.quitting {
		return errorStyle.Render("Benchmark cancelled.") + "\n"
	}

	var b strings.Builder
	for _, name := range m.order {
		state := m.states[name]
		b.WriteString(m.renderModel(state))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderModel(state *modelState) string {
	switch {
	case state.skipped:
		return skippedStyle.Render(fmt.Sprintf("- %s: skipped (%s)", state.name, state.reason))
	case state.done:
		return doneStyle.Render(fmt.Sprintf("+ %s: %d/%d runs | average: %.2f tokens/sec",
			state.name, state.summary.Runs, m.runs, state.summary.TokensPerSecond.Mean))
	case state.started:
		percent := 0.0
		if m.runs > 0 {
			percent = float64(state.completed) / float64(m.runs)
		}
		line := fmt.Sprintf("%s %s %s %d/%d runs",
			m.spinner.View(), state.name, m.progress.ViewAs(percent), state.completed, m.runs)
		if state.completed > 0 {
			line += fmt.Sprintf(" | average: %.2f tokens/sec", state.avg)
		}
		return line
	default:
		return pendingStyle.Render(fmt.Sprintf("  %s: waiting", state.name))
	}
}

// programSink forwards benchmark events into the running program.
type programSink struct {
	program *tea.Program
}

func (s *programSink) BenchmarkStarted(models []string, runs int) {
	s.program.Send(benchmarkStartedMsg{models: models, runs: runs})
}

func (s *programSink) ModelStarted(model string, runs int) {
	s.program.Send(modelStartedMsg{model: model})
}

func (s *programSink) ModelSkipped(model, reason string) {
	s.program.Send(modelSkippedMsg{model: model, reason: reason})
}

func (s *programSink) WarmupStarted(model string, count int) {}

func (s *programSink) RunCompleted(model string, sample benchmark.RunSample, avg float64) {
	s.program.Send(runCompletedMsg{model: model, run: sample.Run, avg: avg})
}

func (s *programSink) ModelCompleted(model string, summary metrics.ModelSummary) {
	s.program.Send(modelCompletedMsg{model: model, summary: summary})
}

var (
	newProgram = func(model tea.Model) *tea.Program {
		return tea.NewProgram(model)
	}
	runBenchmark = benchmark.Run
)

// Run executes the benchmark under the live view and returns its document.
// Quitting the view cancels the benchmark context.
func Run(ctx context.Context, cfg *appconfig.Config) (*benchmark.RunDocument, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := newProgram(newModel(cancel))
	sink := &programSink{program: program}

	var doc *benchmark.RunDocument
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		doc, runErr = runBenchmark(ctx, cfg, sink)
		program.Send(benchmarkDoneMsg{err: runErr})
	}()

	// Quitting the view returns before the benchmark goroutine has unwound
	// from the cancellation; doc and runErr must not be read until it has.
	_, err := program.Run()
	cancel()
	<-done
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}
	if doc == nil {
		return nil, fmt.Errorf("benchmark cancelled")
	}
	return doc, nil
}
