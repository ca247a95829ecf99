package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// SampleWriter inserts history samples keyed by instant, the shape the
// client's best-effort content level produces for history results.
type SampleWriter struct {
	client *ClickHouseClient
}

// NewSampleWriter creates a SampleWriter.
func NewSampleWriter(client *ClickHouseClient) *SampleWriter {
	return &SampleWriter{client: client}
}

// WriteSamples inserts one item's samples in a single batch. The value
// field of each sample is stored as-is; any remaining fields are folded
// into it as JSON when the sample carries more than a plain value.
func (sw *SampleWriter) WriteSamples(ctx context.Context, itemID, hostID, valueType string, samples map[time.Time]map[string]any) error {
	if len(samples) == 0 {
		return nil
	}

	batch, err := sw.client.PrepareBatch(ctx, `
		INSERT INTO history_samples (
			item_id, host_id, instant, value_type, value, received_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare sample batch: %w", err)
	}

	now := time.Now().UTC()
	for instant, fields := range samples {
		if err := batch.Append(
			itemID,
			hostID,
			instant,
			valueType,
			sampleValue(fields),
			now,
		); err != nil {
			return fmt.Errorf("append sample: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send sample batch: %w", err)
	}

	slog.Debug("sample batch inserted", "item_id", itemID, "count", len(samples))
	return nil
}

// sampleValue renders a normalized entry for storage. Most history kinds
// carry a single "value" field; log entries carry several.
func sampleValue(fields map[string]any) string {
	if len(fields) == 1 {
		if v, ok := fields["value"].(string); ok {
			return v
		}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf("%v", fields)
	}
	return string(encoded)
}
