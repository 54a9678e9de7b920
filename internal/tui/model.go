package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/gameshell/internal/app"
	"github.com/spiffcs/gameshell/internal/lifecycle"
)

// DefaultTickRate is used when no tick rate is configured.
const DefaultTickRate = 16 * time.Millisecond

// Model is the Bubble Tea model hosting an App.
type Model struct {
	app      *app.App
	tickRate time.Duration
	title    string

	spinner  spinner.Model
	progress progress.Model
	help     help.Model

	windowWidth  int
	windowHeight int
	done         bool
	aborted      bool
}

// tickMsg drives one App tick.
type tickMsg time.Time

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTickRate sets the time between ticks.
func WithTickRate(d time.Duration) ModelOption {
	return func(m *Model) {
		if d > 0 {
			m.tickRate = d
		}
	}
}

// WithTitle sets the header text.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.title = title
	}
}

// NewModel creates a new TUI model around a.
func NewModel(a *app.App, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithScaledGradient("#60a5fa", "#1e3a8a"),
		progress.WithWidth(25),
		progress.WithoutPercentage(),
	)

	m := Model{
		app:      a,
		tickRate: DefaultTickRate,
		title:    "gameshell",
		spinner:  s,
		progress: p,
		help:     help.New(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tick(m.tickRate),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.aborted = true
			return m, tea.Quit
		}
		// Applied on the next tick.
		m.app.PressKey(msg.String())
		return m, nil

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		return m.step()
	}

	return m, nil
}

// step advances the app by one tick and schedules the next.
func (m Model) step() (tea.Model, tea.Cmd) {
	m.app.Tick()

	if _, ok := m.app.Exit(); ok {
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.app.World().Phase.IsActive(lifecycle.Loading) {
		snap := m.app.World().Progress.Snapshot()
		if snap.Fraction() != m.progress.Percent() {
			cmd = m.progress.SetPercent(snap.Fraction())
		}
	}
	return m, tea.Batch(cmd, tick(m.tickRate))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
