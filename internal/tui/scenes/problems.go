package scenes

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zabbix-bridge/internal/tui/styles"
	"zabbix-bridge/internal/zabbix"
)

// ProblemsScene displays the currently open problems, newest first.
type ProblemsScene struct {
	client     API
	problems   []Problem
	err        string
	width      int
	height     int
	cursor     int
	offset     int
	loading    bool
	maxRows    int
	lastUpdate time.Time
}

// problemsMsg carries a refreshed problem listing.
type problemsMsg struct {
	problems []Problem
	err      string
}

// NewProblemsScene creates a new problems scene.
func NewProblemsScene(client API) *ProblemsScene {
	return &ProblemsScene{
		client:  client,
		loading: true,
		maxRows: 10,
	}
}

// Init starts the first fetch.
func (p *ProblemsScene) Init() tea.Cmd {
	return p.fetchProblems()
}

func (p *ProblemsScene) fetchProblems() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := p.client.ProblemGet(ctx, zabbix.ProblemGetOptions{
			GetOptions: zabbix.GetOptions{
				Limit:     200,
				SortField: "eventid",
				SortOrder: "DESC",
			},
			Recent: true,
		})
		if err != nil {
			return problemsMsg{err: err.Error()}
		}
		return problemsMsg{problems: parseProblems(result)}
	}
}

// TickCmd returns a command that ticks every refresh interval.
func (p *ProblemsScene) TickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Scene: "problems", Time: t}
	})
}

// Update handles messages for the problems scene.
func (p *ProblemsScene) Update(msg tea.Msg) (*ProblemsScene, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.maxRows = max(5, p.height-12)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
				if p.cursor < p.offset {
					p.offset = p.cursor
				}
			}
		case "down", "j":
			if p.cursor < len(p.problems)-1 {
				p.cursor++
				if p.cursor >= p.offset+p.maxRows {
					p.offset = p.cursor - p.maxRows + 1
				}
			}
		case "pgup":
			p.cursor = max(0, p.cursor-p.maxRows)
			p.offset = max(0, p.offset-p.maxRows)
		case "pgdown":
			p.cursor = min(len(p.problems)-1, p.cursor+p.maxRows)
			p.offset = min(max(0, len(p.problems)-p.maxRows), p.offset+p.maxRows)
		case "r":
			p.loading = true
			return p, p.fetchProblems()
		}
		return p, nil

	case problemsMsg:
		p.loading = false
		p.problems = msg.problems
		p.err = msg.err
		p.lastUpdate = time.Now()
		if p.cursor >= len(p.problems) {
			p.cursor = max(0, len(p.problems)-1)
		}
		return p, nil

	case TickMsg:
		if msg.Scene == "problems" {
			return p, p.fetchProblems()
		}
		return p, nil
	}

	return p, nil
}

// View renders the problems table.
func (p *ProblemsScene) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("  Open Problems"))
	b.WriteString("\n\n")

	if p.loading && len(p.problems) == 0 {
		b.WriteString(styles.Muted.Render("  Loading problems..."))
		return b.String()
	}

	if p.err != "" {
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("  Error: %s", p.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("  Check the server URL and credentials. Press [r] to retry."))
		return b.String()
	}

	if len(p.problems) == 0 {
		b.WriteString(styles.StatusOK.Render("  No open problems."))
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("  Press [r] to refresh."))
		return b.String()
	}

	countText := fmt.Sprintf("  %d open problems", len(p.problems))
	b.WriteString(styles.Subtitle.Render(countText))
	if p.loading {
		b.WriteString(styles.Muted.Render("  (refreshing...)"))
	}
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-10s %-10s %-20s %s",
		"Time", "Severity", "Host", "Problem")
	b.WriteString(styles.TableHeader.Render(header))
	b.WriteString("\n")

	endIdx := min(p.offset+p.maxRows, len(p.problems))
	for i, problem := range p.problems[p.offset:endIdx] {
		idx := p.offset + i
		b.WriteString(p.renderRow(problem, idx == p.cursor))
		b.WriteString("\n")
	}

	if len(p.problems) > p.maxRows {
		scrollInfo := fmt.Sprintf("\n  %d-%d of %d (↑↓ to scroll, [r] refresh)",
			p.offset+1, endIdx, len(p.problems))
		b.WriteString(styles.Muted.Render(scrollInfo))
	} else {
		b.WriteString(styles.Muted.Render("\n  [r] Refresh"))
	}

	if !p.lastUpdate.IsZero() {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  |  Updated: %s", p.lastUpdate.Format("15:04:05"))))
	}

	return b.String()
}

func (p *ProblemsScene) renderRow(problem Problem, selected bool) string {
	instant := problem.Instant.Format("15:04:05")
	host := truncate(problem.Host, 20)
	name := truncate(problem.Name, 50)
	if problem.Acked {
		name += " (ack)"
	}

	row := fmt.Sprintf("  %-10s %s %-20s %s", instant, formatSeverity(problem.Severity), host, name)

	if selected {
		return lipgloss.NewStyle().
			Background(styles.Primary).
			Foreground(styles.White).
			Render(row)
	}
	return row
}

// formatSeverity renders one of the platform's severity levels.
func formatSeverity(sev int) string {
	var label string
	switch sev {
	case 5:
		label = "DISASTER"
	case 4:
		label = "HIGH"
	case 3:
		label = "AVERAGE"
	case 2:
		label = "WARNING"
	case 1:
		label = "INFO"
	default:
		label = "UNCLASS"
	}
	return styles.Severity(sev).Render(fmt.Sprintf("%-10s", label))
}
