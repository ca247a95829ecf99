// Package scenes provides the individual views of the monitoring TUI.
package scenes

import (
	"context"
	"strconv"
	"time"

	"zabbix-bridge/internal/zabbix"
)

// TickMsg drives periodic refresh of the active scene.
type TickMsg struct {
	Scene string
	Time  time.Time
}

// API is the slice of the client the scenes use. Satisfied by
// *zabbix.Client; a fake stands in for it in tests.
type API interface {
	APIVersion(ctx context.Context) (string, error)
	ProblemGet(ctx context.Context, opts zabbix.ProblemGetOptions) (any, error)
}

// Problem is one row of the problems table.
type Problem struct {
	Instant  time.Time
	Severity int
	Host     string
	Name     string
	Acked    bool
}

// parseProblems converts a data-level problem listing to display rows.
func parseProblems(result any) []Problem {
	entries, ok := result.([]any)
	if !ok {
		return nil
	}

	problems := make([]Problem, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		p := Problem{
			Name:  stringField(entry, "name"),
			Acked: stringField(entry, "acknowledged") == "1",
		}
		if clock, err := strconv.ParseInt(stringField(entry, "clock"), 10, 64); err == nil {
			p.Instant = time.Unix(clock, 0)
		}
		if sev, err := strconv.Atoi(stringField(entry, "severity")); err == nil {
			p.Severity = sev
		}
		if hosts, ok := entry["hosts"].([]any); ok && len(hosts) > 0 {
			if host, ok := hosts[0].(map[string]any); ok {
				p.Host = stringField(host, "host")
			}
		}
		problems = append(problems, p)
	}
	return problems
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
