package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zabbix-bridge/internal/checkpoint"
	"zabbix-bridge/internal/queue"
	"zabbix-bridge/internal/schema"
	"zabbix-bridge/internal/zabbix"
)

// SampleSink receives normalized history samples. Implemented by the
// ClickHouse sample writer.
type SampleSink interface {
	WriteSamples(ctx context.Context, itemID, hostID, valueType string, samples map[time.Time]map[string]any) error
}

// ItemSpec names one item whose history the ingester collects.
type ItemSpec struct {
	ItemID    string             `yaml:"item_id"`
	HostID    string             `yaml:"host_id"`
	History   zabbix.HistoryType `yaml:"history"`
	ValueType string             `yaml:"value_type"`
}

// IngesterConfig holds polling configuration.
type IngesterConfig struct {
	// PollInterval is the delay between API polls.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Lookback bounds the first poll when no cursor has been saved.
	Lookback time.Duration `yaml:"lookback"`

	// FetchLimit caps the rows requested per poll.
	FetchLimit int `yaml:"fetch_limit"`

	// Items lists the history streams to collect. Empty disables
	// history collection.
	Items []ItemSpec `yaml:"items"`
}

// DefaultIngesterConfig returns the default polling configuration.
func DefaultIngesterConfig() IngesterConfig {
	return IngesterConfig{
		PollInterval: 30 * time.Second,
		Lookback:     time.Hour,
		FetchLimit:   1000,
	}
}

// Ingester polls the API on an interval, normalizes what comes back,
// and feeds the pipeline queue. The client it is given must resolve
// responses at the data level so listings arrive as plain slices.
type Ingester struct {
	client     *zabbix.Client
	normalizer *Normalizer
	validator  *schema.Validator
	buffer     *queue.RingBuffer
	cursors    checkpoint.Store
	samples    SampleSink
	logger     *slog.Logger
	config     IngesterConfig
}

// NewIngester wires an ingester. The sample sink may be nil when no
// items are configured.
func NewIngester(client *zabbix.Client, normalizer *Normalizer, validator *schema.Validator, buffer *queue.RingBuffer, cursors checkpoint.Store, samples SampleSink, logger *slog.Logger, cfg IngesterConfig) *Ingester {
	return &Ingester{
		client:     client,
		normalizer: normalizer,
		validator:  validator,
		buffer:     buffer,
		cursors:    cursors,
		samples:    samples,
		logger:     logger,
		config:     cfg,
	}
}

// Run polls until the context is canceled. Poll errors are logged and
// the loop continues; the next tick retries from the saved cursor.
func (ing *Ingester) Run(ctx context.Context) error {
	ticker := time.NewTicker(ing.config.PollInterval)
	defer ticker.Stop()

	ing.logger.Info("collector started",
		"poll_interval", ing.config.PollInterval,
		"history_items", len(ing.config.Items),
	)

	for {
		if err := ing.Poll(ctx); err != nil {
			ing.logger.Error("poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			ing.logger.Info("collector stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll runs one collection cycle: problems, then configured history.
func (ing *Ingester) Poll(ctx context.Context) error {
	if err := ing.pollProblems(ctx); err != nil {
		return fmt.Errorf("problems: %w", err)
	}
	if ing.samples != nil {
		for _, item := range ing.config.Items {
			if err := ing.pollHistory(ctx, item); err != nil {
				ing.logger.Error("history poll failed", "item_id", item.ItemID, "error", err)
			}
		}
	}
	return nil
}

func (ing *Ingester) pollProblems(ctx context.Context) error {
	since, err := ing.cursor(ctx, "problems")
	if err != nil {
		return err
	}

	result, err := ing.client.ProblemGet(ctx, zabbix.ProblemGetOptions{
		GetOptions: zabbix.GetOptions{Limit: ing.config.FetchLimit},
		From:       since,
		Recent:     true,
	})
	if err != nil {
		return err
	}

	entries, ok := result.([]any)
	if !ok {
		return fmt.Errorf("unexpected problem listing shape %T", result)
	}

	latest := since
	queued := 0
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		event, err := ing.normalizer.NormalizeProblem(entry)
		if err != nil {
			ing.logger.Warn("skipping malformed problem entry", "error", err)
			continue
		}
		if ing.validator != nil {
			if err := ing.validator.Validate(event); err != nil {
				ing.logger.Warn("dropping invalid event", "error", err, "name", event.Name)
				continue
			}
		}
		if err := ing.buffer.Push(event); err != nil {
			ing.logger.Warn("queue rejected event", "error", err, "name", event.Name)
			continue
		}
		queued++
		if event.Instant.After(latest) {
			latest = event.Instant
		}
		ing.logger.Debug("queued event",
			"name", event.Name,
			"severity", severityName(event.Severity),
			"host", event.Host,
		)
	}

	if queued > 0 {
		ing.logger.Info("collected problems", "queued", queued, "cursor", latest)
	}
	// Advance past the newest entry so the next poll does not refetch it.
	return ing.cursors.Save(ctx, "problems", latest.Add(time.Second))
}

func (ing *Ingester) pollHistory(ctx context.Context, item ItemSpec) error {
	key := "history:" + item.ItemID
	since, err := ing.cursor(ctx, key)
	if err != nil {
		return err
	}

	result, err := ing.client.HistoryGet(ctx, zabbix.HistoryGetOptions{
		GetOptions: zabbix.GetOptions{Limit: ing.config.FetchLimit},
		History:    item.History,
		ItemIDs:    item.ItemID,
		From:       since,
	})
	if err != nil {
		return err
	}

	entries, ok := result.([]any)
	if !ok {
		return fmt.Errorf("unexpected history listing shape %T", result)
	}
	if len(entries) == 0 {
		return nil
	}

	samples, err := zabbix.NormalizeSeries(entries)
	if err != nil {
		return err
	}
	if err := ing.samples.WriteSamples(ctx, item.ItemID, item.HostID, item.ValueType, samples); err != nil {
		return err
	}

	latest := since
	for instant := range samples {
		if instant.After(latest) {
			latest = instant
		}
	}

	ing.logger.Debug("collected history", "item_id", item.ItemID, "samples", len(samples))
	return ing.cursors.Save(ctx, key, latest.Add(time.Second))
}

// cursor loads the saved cursor or falls back to the lookback window.
func (ing *Ingester) cursor(ctx context.Context, key string) (time.Time, error) {
	since, err := ing.cursors.Load(ctx, key)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return time.Now().Add(-ing.config.Lookback).UTC(), nil
		}
		return time.Time{}, err
	}
	return since, nil
}
