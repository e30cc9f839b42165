// Package tui is the full-screen Bubble Tea front-end for musbconv.
//
// The program moves through a fixed set of states: planning (scan and
// probe), converting (worker pool running), then a summary or a
// failure screen. Manager progress events arrive over a channel and
// fill the log pane; the progress bar is fed by polling the manager
// counters on a timer, so a stalled ffmpeg never freezes the UI.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alkatrazstudio/musbconv/internal/config"
	"github.com/alkatrazstudio/musbconv/internal/convert"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C792EA")).
			MarginBottom(1)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89DDFF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#C3E88D"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCB6B"))

	badStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F07178"))

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#697098"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F78C6C"))

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89DDFF")).
			Padding(1, 2)
)

// State is the UI phase.
type State int

const (
	StatePlanning State = iota
	StateConverting
	StateDone
	StateFailed
)

// logCap bounds the log pane; older lines scroll away.
const logCap = 10

// tickEvery is the progress poll interval.
const tickEvery = 200 * time.Millisecond

// LogEntry is one line of the log pane.
type LogEntry struct {
	Message string
	Level   convert.ProgressLevel
}

type (
	// ProgressMsg wraps one manager progress event.
	ProgressMsg struct {
		Event convert.ProgressEvent
	}

	// PlanDoneMsg reports the end of batch planning.
	PlanDoneMsg struct {
		Manager *convert.Manager
		Jobs    int
		Err     error
	}

	// BatchDoneMsg reports the end of the conversion run.
	BatchDoneMsg struct {
		Report *convert.Report
		Err    error
	}

	// TickMsg drives the progress poll.
	TickMsg struct{}
)

// Model holds the whole UI state.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	manager *convert.Manager
	report  *convert.Report

	// events carries manager callbacks into the Update loop.
	events chan convert.ProgressEvent

	totalJobs    int32
	finishedJobs int32
	failedJobs   int32

	width  int
	height int
}

// NewModel builds the model for a fully assembled settings value; the
// command line has already layered flags over the config file.
func NewModel(settings *config.Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C792EA"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StatePlanning,
		spinner:  sp,
		progress: bar,
		settings: settings,
		events:   make(chan convert.ProgressEvent, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		planBatch(m.ctx, m.settings, m.events),
		waitForEvent(m.events),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clamp(msg.Width-20, 20, 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != convert.LevelVerbose || m.settings.Verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > logCap {
				m.logs = m.logs[len(m.logs)-logCap:]
			}
		}
		// Re-arm for the next event.
		cmds = append(cmds, waitForEvent(m.events))

	case PlanDoneMsg:
		if msg.Err != nil {
			m.state = StateFailed
			m.err = msg.Err
			break
		}
		m.manager = msg.Manager
		m.totalJobs = int32(msg.Jobs)
		m.state = StateConverting
		cmds = append(cmds, runBatch(m.ctx, msg.Manager), tick())

	case BatchDoneMsg:
		m.report = msg.Report
		if m.manager != nil {
			m.finishedJobs, m.failedJobs, m.totalJobs = m.manager.GetProgress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateFailed
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateFailed
			m.err = msg.Err
		default:
			m.state = StateDone
		}

	case TickMsg:
		if m.manager != nil && m.state == StateConverting {
			m.finishedJobs, m.failedJobs, m.totalJobs = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), tick())
		}

	case progress.FrameMsg:
		bar, cmd := m.progress.Update(msg)
		m.progress = bar.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "esc":
		if m.state == StatePlanning || m.state == StateConverting {
			m.cancel()
			m.state = StateFailed
			m.err = fmt.Errorf("cancelled by user")
		}

	case "q":
		if m.state == StateDone || m.state == StateFailed {
			return m, tea.Quit
		}
	}
	return m, nil
}

// percent is the finished share of the batch, 0 when nothing is
// planned yet.
func (m Model) percent() float64 {
	if m.totalJobs == 0 {
		return 0
	}
	return float64(m.finishedJobs) / float64(m.totalJobs)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("♫ musbconv"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Batch audio conversion via ffmpeg"))
	b.WriteString("\n\n")

	switch m.state {
	case StatePlanning:
		b.WriteString(m.viewPlanning())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateDone:
		b.WriteString(m.viewSummary())
	case StateFailed:
		b.WriteString(m.viewFailure())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewPlanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(accentStyle.Render("Scanning input directories..."))
	b.WriteString("\n\n")
	b.WriteString(m.logPane())

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	heading := fmt.Sprintf("Converting %d tracks to %s", m.totalJobs, m.settings.OutputExt)
	b.WriteString(accentStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render("  → " + m.settings.OutputDir))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	counts := fmt.Sprintf("Tracks: %d/%d", m.finishedJobs, m.totalJobs)
	if m.failedJobs > 0 {
		counts += fmt.Sprintf(" | Failed: %d", m.failedJobs)
	}
	b.WriteString(accentStyle.Render(counts))
	b.WriteString("\n\n")
	b.WriteString(m.logPane())

	return b.String()
}

func (m Model) viewSummary() string {
	heading := "Conversion complete"
	converted := int(m.finishedJobs - m.failedJobs)
	failed := int(m.failedJobs)
	if m.report != nil {
		converted = m.report.Converted
		failed = m.report.Failed
		if m.report.DryRun {
			heading = "Dry run complete"
		}
	}

	return summaryBoxStyle.Render(fmt.Sprintf(
		"✓ %s\n\nConverted: %d\nFailed: %d\nOutput: %s",
		heading, converted, failed, m.settings.OutputDir,
	))
}

func (m Model) viewFailure() string {
	var b strings.Builder

	b.WriteString(badStyle.Render("✗ Conversion stopped"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	b.WriteString("\n\n")
	b.WriteString(m.logPane())

	return b.String()
}

func (m Model) logPane() string {
	var b strings.Builder

	for _, entry := range m.logs {
		style, mark := dimStyle, "•"
		switch entry.Level {
		case convert.LevelError:
			style, mark = badStyle, "✗"
		case convert.LevelWarning:
			style, mark = warnStyle, "!"
		case convert.LevelSuccess:
			style, mark = okStyle, "✓"
		case convert.LevelInfo:
			style, mark = accentStyle, "›"
		}
		b.WriteString(style.Render(mark + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StatePlanning, StateConverting:
		return "esc: cancel"
	case StateDone, StateFailed:
		return "q: quit"
	}
	return ""
}

// planBatch builds the manager and plans the jobs. The manager's
// callback may fire from worker goroutines, so it hands events to the
// channel without blocking; when the UI falls behind, extra events are
// dropped rather than stalling a worker.
func planBatch(ctx context.Context, settings *config.Settings, events chan<- convert.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		manager, err := convert.NewManager(settings, func(event convert.ProgressEvent) {
			select {
			case events <- event:
			default:
			}
		})
		if err != nil {
			return PlanDoneMsg{Err: err}
		}
		if err := manager.Initialize(ctx); err != nil {
			return PlanDoneMsg{Err: err}
		}
		return PlanDoneMsg{Manager: manager, Jobs: len(manager.Jobs())}
	}
}

// runBatch runs the conversion and reports the final outcome.
func runBatch(ctx context.Context, manager *convert.Manager) tea.Cmd {
	return func() tea.Msg {
		report, err := manager.Run(ctx)
		return BatchDoneMsg{Report: report, Err: err}
	}
}

// waitForEvent forwards the next manager event into the Update loop.
func waitForEvent(events <-chan convert.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Run starts the full-screen UI and blocks until it exits.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
