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

// OverviewScene shows the server version and a problem count broken
// down by severity.
type OverviewScene struct {
	client     API
	version    string
	counts     [6]int
	total      int
	err        string
	width      int
	loading    bool
	lastUpdate time.Time
}

type overviewMsg struct {
	version string
	counts  [6]int
	total   int
	err     string
}

// NewOverviewScene creates a new overview scene.
func NewOverviewScene(client API) *OverviewScene {
	return &OverviewScene{
		client:  client,
		loading: true,
	}
}

// Init starts the first fetch.
func (o *OverviewScene) Init() tea.Cmd {
	return o.fetch()
}

func (o *OverviewScene) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		version, err := o.client.APIVersion(ctx)
		if err != nil {
			return overviewMsg{err: err.Error()}
		}

		result, err := o.client.ProblemGet(ctx, zabbix.ProblemGetOptions{
			GetOptions: zabbix.GetOptions{Limit: 1000},
			Recent:     true,
		})
		if err != nil {
			return overviewMsg{version: version, err: err.Error()}
		}

		msg := overviewMsg{version: version}
		for _, problem := range parseProblems(result) {
			if problem.Severity >= 0 && problem.Severity < len(msg.counts) {
				msg.counts[problem.Severity]++
			}
			msg.total++
		}
		return msg
	}
}

// TickCmd returns a command that ticks every refresh interval.
func (o *OverviewScene) TickCmd() tea.Cmd {
	return tea.Tick(10*time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Scene: "overview", Time: t}
	})
}

// Update handles messages for the overview scene.
func (o *OverviewScene) Update(msg tea.Msg) (*OverviewScene, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		return o, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			o.loading = true
			return o, o.fetch()
		}
		return o, nil

	case overviewMsg:
		o.loading = false
		o.version = msg.version
		o.counts = msg.counts
		o.total = msg.total
		o.err = msg.err
		o.lastUpdate = time.Now()
		return o, nil

	case TickMsg:
		if msg.Scene == "overview" {
			return o, o.fetch()
		}
		return o, nil
	}

	return o, nil
}

// View renders the overview cards.
func (o *OverviewScene) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("  Overview"))
	b.WriteString("\n\n")

	if o.loading && o.lastUpdate.IsZero() {
		b.WriteString(styles.Muted.Render("  Connecting..."))
		return b.String()
	}

	if o.err != "" {
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("  Error: %s", o.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("  Press [r] to retry."))
		return b.String()
	}

	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("  Server API %s", o.version)))
	b.WriteString("\n\n")

	cards := []string{
		o.renderCard("Open problems", fmt.Sprintf("%d", o.total), styles.MetricValue),
		o.renderCard("Disaster", fmt.Sprintf("%d", o.counts[5]), styles.StatusError),
		o.renderCard("High", fmt.Sprintf("%d", o.counts[4]), styles.StatusError),
		o.renderCard("Average", fmt.Sprintf("%d", o.counts[3]), styles.StatusWarning),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	cards = []string{
		o.renderCard("Warning", fmt.Sprintf("%d", o.counts[2]), styles.StatusWarning),
		o.renderCard("Information", fmt.Sprintf("%d", o.counts[1]), styles.StatusOK),
		o.renderCard("Not classified", fmt.Sprintf("%d", o.counts[0]), styles.Muted),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))

	if !o.lastUpdate.IsZero() {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  Updated: %s  [r] Refresh", o.lastUpdate.Format("15:04:05"))))
	}

	return b.String()
}

func (o *OverviewScene) renderCard(label, value string, valueStyle lipgloss.Style) string {
	content := valueStyle.Render(value) + "\n" + styles.MetricLabel.Render(label)
	return styles.MetricCard.Render(content)
}
