package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vpctier/internal/tiers"
)

// FetchFunc produces a fresh stack snapshot on every poll.
type FetchFunc func(ctx context.Context) (*tiers.StackStatus, error)

// Model is the Bubble Tea model for the status dashboard.
type Model struct {
	StackName string
	Region    string

	Status    *tiers.StackStatus
	FetchedAt time.Time
	Err       error

	SpinnerFrame int
	Width        int
	Height       int

	fetch    FetchFunc
	interval time.Duration
	ctx      context.Context
}

// NewModel creates a model that polls fetch at the given interval.
func NewModel(ctx context.Context, stackName, region string, interval time.Duration, fetch FetchFunc) Model {
	return Model{
		StackName: stackName,
		Region:    region,
		fetch:     fetch,
		interval:  interval,
		ctx:       ctx,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StatusMsg:
		m.FetchedAt = time.Now()
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}
		m.Err = nil
		m.Status = msg.Status

	case TickMsg:
		m.SpinnerFrame++
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.fetch(m.ctx)
		return StatusMsg{Status: st, Err: err}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Run drives the dashboard until the user quits or a fetch fails.
func Run(ctx context.Context, stackName, region string, interval time.Duration, fetch FetchFunc) error {
	m := NewModel(ctx, stackName, region, interval, fetch)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err != nil {
		return fm.Err
	}
	return nil
}
