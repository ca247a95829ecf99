package collector

import (
	"testing"

	"zabbix-bridge/internal/schema"
)

func problemEntry() map[string]any {
	return map[string]any{
		"eventid":      "9001",
		"objectid":     "13926",
		"clock":        "1748779200",
		"ns":           "500000000",
		"name":         "Disk space is critically low",
		"severity":     "4",
		"acknowledged": "1",
		"r_eventid":    "0",
		"tags": []any{
			map[string]any{"tag": "env", "value": "prod"},
			map[string]any{"tag": "team", "value": "storage"},
		},
		"hosts": []any{
			map[string]any{"hostid": "10084", "host": "db-01"},
		},
	}
}

func TestNormalizeProblem(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{SourceURL: "http://zabbix.local"})

	event, err := n.NormalizeProblem(problemEntry())
	if err != nil {
		t.Fatalf("NormalizeProblem: %v", err)
	}

	if event.Kind != schema.KindProblem {
		t.Errorf("kind = %q; want problem", event.Kind)
	}
	if event.Status != schema.StatusOpen {
		t.Errorf("status = %q; want open", event.Status)
	}
	if event.Name != "Disk space is critically low" {
		t.Errorf("name = %q", event.Name)
	}
	if event.Severity != 8 {
		t.Errorf("severity = %d; want 8 for platform high", event.Severity)
	}
	if !event.Acknowledged {
		t.Error("acknowledged flag lost")
	}
	if event.Host != "db-01" || event.HostID != "10084" {
		t.Errorf("host = %q/%q; want db-01/10084", event.Host, event.HostID)
	}
	if event.ObjectID != "13926" {
		t.Errorf("object_id = %q", event.ObjectID)
	}
	if got := event.Instant.Unix(); got != 1748779200 {
		t.Errorf("instant = %d; want 1748779200", got)
	}
	if got := event.Instant.Nanosecond(); got != 500000000 {
		t.Errorf("instant ns = %d; want 500000000", got)
	}
	if len(event.Tags) != 2 || event.Tags[0].Tag != "env" || event.Tags[0].Value != "prod" {
		t.Errorf("tags = %+v", event.Tags)
	}
	if event.Source.Product != "zabbix" || event.Source.URL != "http://zabbix.local" {
		t.Errorf("source = %+v", event.Source)
	}
	if event.Metadata["zbx_eventid"] != "9001" {
		t.Errorf("metadata = %+v; want zbx_eventid preserved", event.Metadata)
	}
	if event.EventID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("event id not assigned")
	}
}

func TestNormalizeProblemRecovered(t *testing.T) {
	n := NewNormalizer(DefaultNormalizerConfig())

	entry := problemEntry()
	entry["r_eventid"] = "9002"

	event, err := n.NormalizeProblem(entry)
	if err != nil {
		t.Fatalf("NormalizeProblem: %v", err)
	}
	if event.Kind != schema.KindRecovery {
		t.Errorf("kind = %q; want recovery", event.Kind)
	}
	if event.Status != schema.StatusResolved {
		t.Errorf("status = %q; want resolved", event.Status)
	}
}

func TestSeverityMapping(t *testing.T) {
	tests := []struct {
		platform string
		want     int
	}{
		{"0", 1},
		{"1", 2},
		{"2", 4},
		{"3", 6},
		{"4", 8},
		{"5", 10},
		{"9", 1},  // out of range
		{"", 1},   // absent
		{"up", 1}, // garbage
	}

	n := NewNormalizer(DefaultNormalizerConfig())
	for _, tt := range tests {
		entry := problemEntry()
		if tt.platform == "" {
			delete(entry, "severity")
		} else {
			entry["severity"] = tt.platform
		}
		event, err := n.NormalizeProblem(entry)
		if err != nil {
			t.Fatalf("severity %q: %v", tt.platform, err)
		}
		if event.Severity != tt.want {
			t.Errorf("severity %q mapped to %d; want %d", tt.platform, event.Severity, tt.want)
		}
	}
}

func TestNormalizeEventKinds(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		value    string
		wantKind schema.Kind
		wantStat schema.Status
	}{
		{"trigger problem", "0", "1", schema.KindProblem, schema.StatusOpen},
		{"trigger recovery", "0", "0", schema.KindRecovery, schema.StatusResolved},
		{"discovery", "1", "", schema.KindDiscovery, schema.StatusUnknown},
		{"autoregistration", "2", "", schema.KindDiscovery, schema.StatusUnknown},
		{"internal", "3", "1", schema.KindInternal, schema.StatusOpen},
	}

	n := NewNormalizer(DefaultNormalizerConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := problemEntry()
			entry["source"] = tt.source
			if tt.value == "" {
				delete(entry, "value")
			} else {
				entry["value"] = tt.value
			}
			event, err := n.NormalizeEvent(entry)
			if err != nil {
				t.Fatalf("NormalizeEvent: %v", err)
			}
			if event.Kind != tt.wantKind {
				t.Errorf("kind = %q; want %q", event.Kind, tt.wantKind)
			}
			if event.Status != tt.wantStat {
				t.Errorf("status = %q; want %q", event.Status, tt.wantStat)
			}
		})
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	n := NewNormalizer(DefaultNormalizerConfig())

	noClock := problemEntry()
	delete(noClock, "clock")
	if _, err := n.NormalizeProblem(noClock); err == nil {
		t.Error("entry without clock must be rejected")
	}

	noName := problemEntry()
	delete(noName, "name")
	if _, err := n.NormalizeProblem(noName); err == nil {
		t.Error("entry without name must be rejected")
	}
}

func TestNormalizedEventsPassValidation(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{SourceURL: "http://zabbix.local"})
	event, err := n.NormalizeProblem(problemEntry())
	if err != nil {
		t.Fatalf("NormalizeProblem: %v", err)
	}
	// Fixture clock is in the past, well inside the validator's window
	// only relative to itself; pin instant near now for this check.
	event.Instant = event.ReceivedAt

	v := schema.NewValidator()
	if err := v.Validate(event); err != nil {
		t.Errorf("normalized event failed validation: %v", err)
	}
}
