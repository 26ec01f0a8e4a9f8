// Package tui is a terminal front-end for the dashboard built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"yolodash/internal/app/port"
	"yolodash/internal/app/view"
	"yolodash/internal/domain/entity"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorBorder = lipgloss.Color("#2e7de9")
	ColorText   = lipgloss.Color("#a9b1d6")
	ColorKey    = lipgloss.Color("#bd93f9")
	ColorError  = lipgloss.Color("#f7768e")

	StyleFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Foreground(ColorText).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBorder)

	StyleFooter = lipgloss.NewStyle().Foreground(ColorKey)
	StyleError  = lipgloss.NewStyle().Foreground(ColorError)
)

// DefaultKeys maps each action to the key that triggers it.
var DefaultKeys = map[view.Action]string{
	view.ActionConnect:      "c",
	view.ActionDisconnect:   "l",
	view.ActionSelectHome:   "h",
	view.ActionSelectShade:  "s",
	view.ActionRefreshPrice: "r",
	view.ActionRefreshBatch: "b",
}

const (
	keyRefreshAll = "a"
	keyQuit       = "q"
)

// snapshotMsg carries a state change into the bubbletea loop.
type snapshotMsg entity.Snapshot

// closedMsg reports that the subscription channel was closed.
type closedMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	dashboard port.Dashboard
	opts      view.Options
	keys      map[view.Action]string
	byKey     map[string]view.Action

	updates     <-chan entity.Snapshot
	unsubscribe func()

	snap   entity.Snapshot
	status string
	width  int
}

// NewModel subscribes to dashboard and returns a model rendering it.
// Call Close once the program exits.
func NewModel(dashboard port.Dashboard, opts view.Options) *Model {
	updates, cancel := dashboard.Subscribe()
	byKey := make(map[string]view.Action, len(DefaultKeys))
	for action, key := range DefaultKeys {
		byKey[key] = action
	}
	return &Model{
		dashboard:   dashboard,
		opts:        opts,
		keys:        DefaultKeys,
		byKey:       byKey,
		updates:     updates,
		unsubscribe: cancel,
		snap:        dashboard.Snapshot(),
	}
}

// Close releases the state subscription.
func (m *Model) Close() {
	m.unsubscribe()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		snap := entity.Snapshot(msg)
		// A snapshot read at startup may be newer than a queued one.
		if snap.Version >= m.snap.Version {
			m.snap = snap
		}
		return m, m.waitForSnapshot()
	case closedMsg:
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.status = ""
	switch key {
	case keyQuit, "ctrl+c":
		return m, tea.Quit
	case keyRefreshAll:
		m.dashboard.RefreshAll()
		return m, nil
	}

	action, ok := m.byKey[key]
	if !ok {
		return m, nil
	}
	// Only actions the current render offers are honoured.
	if view.FindAction(view.Render(m.snap, m.opts), action) == nil {
		return m, nil
	}

	switch action {
	case view.ActionConnect:
		m.dashboard.Connect()
	case view.ActionDisconnect:
		m.dashboard.Disconnect()
	case view.ActionSelectHome:
		m.selectSection(entity.SectionHome)
	case view.ActionSelectShade:
		m.selectSection(entity.SectionShade)
	case view.ActionRefreshPrice:
		m.dashboard.RefreshPrice()
	case view.ActionRefreshBatch:
		m.dashboard.RefreshBatchPrices()
	}
	// Synchronous actions show up immediately instead of waiting for the
	// subscription round trip.
	m.snap = m.dashboard.Snapshot()
	return m, nil
}

func (m *Model) selectSection(section entity.Section) {
	if err := m.dashboard.SelectSection(section); err != nil {
		m.status = err.Error()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	body := view.RenderText(view.Render(m.snap, m.opts), m.keys)

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(m.opts.Title))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimRight(body, "\n"))

	frame := StyleFrame
	if m.width > 4 {
		frame = frame.Width(m.width - 4)
	}
	out := frame.Render(sb.String()) + "\n"
	if m.status != "" {
		out += StyleError.Render(m.status) + "\n"
	}
	out += StyleFooter.Render(fmt.Sprintf("[%s] refresh all  [%s] quit", keyRefreshAll, keyQuit)) + "\n"
	return out
}

// Run starts the terminal program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, dashboard port.Dashboard, opts view.Options, programOpts ...tea.ProgramOption) error {
	m := NewModel(dashboard, opts)
	defer m.Close()

	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal dashboard: %w", err)
	}
	return nil
}
