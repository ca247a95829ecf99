// Package tui provides a terminal dashboard over the monitoring API.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zabbix-bridge/internal/tui/scenes"
	"zabbix-bridge/internal/tui/styles"
	"zabbix-bridge/internal/zabbix"
)

// Scene represents the current view.
type Scene int

const (
	SceneOverview Scene = iota
	SceneProblems
)

// Model is the main TUI model.
type Model struct {
	scene Scene

	overview *scenes.OverviewScene
	problems *scenes.ProblemsScene

	width  int
	height int

	quitting bool
}

// New creates a TUI over the given client.
func New(client scenes.API) *Model {
	return &Model{
		scene:    SceneOverview,
		overview: scenes.NewOverviewScene(client),
		problems: scenes.NewProblemsScene(client),
	}
}

// Init starts the active scene's first fetch and its ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.overview.Init(),
		m.activeTickCmd(),
	)
}

// activeTickCmd returns the tick command for the active scene only so
// inactive scenes never poll in the background.
func (m *Model) activeTickCmd() tea.Cmd {
	switch m.scene {
	case SceneOverview:
		return m.overview.TickCmd()
	case SceneProblems:
		return m.problems.TickCmd()
	default:
		return nil
	}
}

// Update handles all messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "1":
			if m.scene != SceneOverview {
				m.scene = SceneOverview
				cmds = append(cmds, m.overview.Init(), m.overview.TickCmd())
			}
			return m, tea.Batch(cmds...)

		case "2":
			if m.scene != SceneProblems {
				m.scene = SceneProblems
				cmds = append(cmds, m.problems.Init(), m.problems.TickCmd())
			}
			return m, tea.Batch(cmds...)

		case "tab":
			m.scene = (m.scene + 1) % 2
			cmds = append(cmds, m.activeTickCmd())
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overview, _ = m.overview.Update(msg)
		m.problems, _ = m.problems.Update(msg)
		return m, nil

	case scenes.TickMsg:
		var cmd tea.Cmd
		switch m.scene {
		case SceneOverview:
			m.overview, cmd = m.overview.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			cmds = append(cmds, m.overview.TickCmd())
		case SceneProblems:
			m.problems, cmd = m.problems.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			cmds = append(cmds, m.problems.TickCmd())
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch m.scene {
	case SceneOverview:
		m.overview, cmd = m.overview.Update(msg)
	case SceneProblems:
		m.problems, cmd = m.problems.Update(msg)
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current view.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.scene {
	case SceneOverview:
		b.WriteString(m.overview.View())
	case SceneProblems:
		b.WriteString(m.problems.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderHeader() string {
	tabs := []struct {
		name  string
		key   string
		scene Scene
	}{
		{"Overview", "1", SceneOverview},
		{"Problems", "2", SceneProblems},
	}

	var tabViews []string
	for _, tab := range tabs {
		label := fmt.Sprintf(" %s %s ", tab.key, tab.name)
		if tab.scene == m.scene {
			tabViews = append(tabViews, styles.TabActive.Render(label))
		} else {
			tabViews = append(tabViews, styles.TabInactive.Render(label))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabViews...)

	return lipgloss.NewStyle().
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.MutedColor).
		Width(m.width).
		Render(tabBar)
}

func (m *Model) renderFooter() string {
	help := " [1-2] Switch tabs  [Tab] Next tab  [↑↓/jk] Navigate  [q] Quit "
	return styles.Help.Render(help)
}

// Run starts the TUI application against the given endpoint.
func Run(cfg zabbix.Config) error {
	m := New(zabbix.NewClient(cfg))
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
