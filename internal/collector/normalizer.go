// Package collector polls the monitoring platform API and converts its
// problem and event listings into canonical events for the pipeline.
package collector

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"zabbix-bridge/internal/schema"
	"zabbix-bridge/internal/zabbix"
)

// severityMapping spreads the platform's 0-5 severity scale over the
// canonical 1-10 range.
var severityMapping = map[int]int{
	0: 1,  // not classified
	1: 2,  // information
	2: 4,  // warning
	3: 6,  // average
	4: 8,  // high
	5: 10, // disaster
}

// NormalizerConfig holds configuration for the normalizer.
type NormalizerConfig struct {
	Product   string
	SourceURL string
}

// DefaultNormalizerConfig returns the default normalizer configuration.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{Product: "zabbix"}
}

// Normalizer converts API listing entries to canonical events.
type Normalizer struct {
	config NormalizerConfig
}

// NewNormalizer creates a normalizer with the given configuration.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if cfg.Product == "" {
		cfg.Product = "zabbix"
	}
	return &Normalizer{config: cfg}
}

// NormalizeProblem converts one problem.get entry to a canonical event.
// Problems are open by definition until a recovery event references them.
func (n *Normalizer) NormalizeProblem(entry map[string]any) (*schema.Event, error) {
	event, err := n.normalizeCommon(entry)
	if err != nil {
		return nil, err
	}

	event.Kind = schema.KindProblem
	event.Status = schema.StatusOpen
	if rid := stringField(entry, "r_eventid"); rid != "" && rid != "0" {
		event.Kind = schema.KindRecovery
		event.Status = schema.StatusResolved
	}

	return event, nil
}

// NormalizeEvent converts one event.get entry to a canonical event. The
// kind follows the entry's source field.
func (n *Normalizer) NormalizeEvent(entry map[string]any) (*schema.Event, error) {
	event, err := n.normalizeCommon(entry)
	if err != nil {
		return nil, err
	}

	source, _ := wireNumber(entry["source"])
	switch {
	case source == 1 || source == 2:
		event.Kind = schema.KindDiscovery
	case source == 3:
		event.Kind = schema.KindInternal
	default:
		event.Kind = schema.KindProblem
	}

	switch stringField(entry, "value") {
	case "0":
		event.Status = schema.StatusResolved
		if event.Kind == schema.KindProblem {
			event.Kind = schema.KindRecovery
		}
	case "1":
		event.Status = schema.StatusOpen
	default:
		event.Status = schema.StatusUnknown
	}

	return event, nil
}

func (n *Normalizer) normalizeCommon(entry map[string]any) (*schema.Event, error) {
	clock, ok := wireNumber(entry["clock"])
	if !ok {
		return nil, fmt.Errorf("collector: entry has no clock field")
	}
	ns, _ := wireNumber(entry["ns"])

	name := stringField(entry, "name")
	if name == "" {
		return nil, fmt.Errorf("collector: entry has no name field")
	}

	event := &schema.Event{
		EventID:       uuid.New(),
		Instant:       time.Unix(clock, ns).UTC(),
		ReceivedAt:    time.Now().UTC(),
		SchemaVersion: schema.SchemaVersionCurrent,
		Source: schema.Source{
			Product: n.config.Product,
			URL:     n.config.SourceURL,
		},
		Name:     name,
		Severity: n.mapSeverity(entry),
		ObjectID: stringField(entry, "objectid"),
	}

	if stringField(entry, "acknowledged") == "1" {
		event.Acknowledged = true
	}

	n.extractHost(entry, event)
	event.Tags = extractTags(entry)
	event.Metadata = buildMetadata(entry)

	return event, nil
}

func (n *Normalizer) mapSeverity(entry map[string]any) int {
	raw, ok := wireNumber(entry["severity"])
	if !ok {
		return 1
	}
	if mapped, ok := severityMapping[int(raw)]; ok {
		return mapped
	}
	return 1
}

// extractHost reads the first element of a selectHosts expansion.
func (n *Normalizer) extractHost(entry map[string]any, event *schema.Event) {
	hosts, ok := entry["hosts"].([]any)
	if !ok || len(hosts) == 0 {
		return
	}
	host, ok := hosts[0].(map[string]any)
	if !ok {
		return
	}
	event.Host = stringField(host, "host")
	event.HostID = stringField(host, "hostid")
}

func extractTags(entry map[string]any) []schema.Tag {
	raw, ok := entry["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]schema.Tag, 0, len(raw))
	for _, t := range raw {
		m, ok := t.(map[string]any)
		if !ok {
			continue
		}
		tag := stringField(m, "tag")
		if tag == "" {
			continue
		}
		tags = append(tags, schema.Tag{Tag: tag, Value: stringField(m, "value")})
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func buildMetadata(entry map[string]any) map[string]any {
	metadata := make(map[string]any)
	for _, field := range []string{"eventid", "r_eventid", "source", "object", "severity", "opdata"} {
		if val, ok := entry[field]; ok {
			metadata["zbx_"+field] = val
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

// wireNumber reads a numeric field the API may encode as a string or a
// JSON number.
func wireNumber(v any) (int64, bool) {
	switch val := v.(type) {
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	}
	return 0, false
}

// severityName maps a canonical severity back to the platform's label.
func severityName(canonical int) string {
	for zbx, mapped := range severityMapping {
		if mapped == canonical {
			if name, ok := zabbix.SeverityName(zbx); ok {
				return string(name)
			}
		}
	}
	return strconv.Itoa(canonical)
}
