// Package styles defines the dashboard color scheme. The severity ladder
// mirrors the palette the Zabbix frontend uses so operators see familiar
// colors for familiar states.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Base palette
	Primary    = lipgloss.Color("#D6412B")
	Secondary  = lipgloss.Color("#10B981")
	Warning    = lipgloss.Color("#FFC859")
	Error      = lipgloss.Color("#E45959")
	MutedColor = lipgloss.Color("#6B7280")
	White      = lipgloss.Color("#FFFFFF")

	// Severity colors, indexed by the platform's 0..5 scale.
	severityColors = [6]lipgloss.Color{
		"#97AAB3", // not classified
		"#7499FF", // information
		"#FFC859", // warning
		"#FFA059", // average
		"#E97659", // high
		"#E45959", // disaster
	}

	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	TabActive = lipgloss.NewStyle().
			Foreground(White).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	TabInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 2)

	Help = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(MutedColor)

	MetricCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(1, 2).
			Width(20)

	MetricValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	MetricLabel = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Severity returns the style for a raw severity level. Levels outside
// 0..5 fall back to the not-classified color.
func Severity(level int) lipgloss.Style {
	if level < 0 || level >= len(severityColors) {
		level = 0
	}
	style := lipgloss.NewStyle().Foreground(severityColors[level])
	if level >= 4 {
		style = style.Bold(true)
	}
	return style
}
