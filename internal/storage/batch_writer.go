package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"zabbix-bridge/internal/schema"
)

// BatchWriterConfig holds configuration for the batch writer.
type BatchWriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// DefaultBatchWriterConfig returns the default batch writer configuration.
func DefaultBatchWriterConfig() BatchWriterConfig {
	return BatchWriterConfig{
		BatchSize:     500,
		FlushInterval: 5 * time.Second,
		MaxRetries:    3,
		RetryDelay:    time.Second,
	}
}

// BatchWriter accumulates events and inserts them into ClickHouse in
// batches, flushing on size or interval.
type BatchWriter struct {
	client *ClickHouseClient
	config BatchWriterConfig

	mu     sync.Mutex
	buffer []*schema.Event
	closed bool

	flushTimer *time.Timer

	written atomic.Uint64
	failed  atomic.Uint64
	batches atomic.Uint64
}

// NewBatchWriter creates a BatchWriter and starts its flush timer.
func NewBatchWriter(client *ClickHouseClient, cfg BatchWriterConfig) *BatchWriter {
	bw := &BatchWriter{
		client: client,
		config: cfg,
		buffer: make([]*schema.Event, 0, cfg.BatchSize),
	}
	bw.flushTimer = time.AfterFunc(cfg.FlushInterval, bw.timerFlush)
	return bw
}

// Write queues an event for insertion, flushing when the batch is full.
func (bw *BatchWriter) Write(event *schema.Event) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return ErrWriterClosed
	}

	bw.buffer = append(bw.buffer, event)
	if len(bw.buffer) >= bw.config.BatchSize {
		return bw.flushLocked()
	}
	return nil
}

func (bw *BatchWriter) timerFlush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return
	}
	if len(bw.buffer) > 0 {
		if err := bw.flushLocked(); err != nil {
			slog.Error("timer flush failed", "error", err)
		}
	}
	bw.flushTimer.Reset(bw.config.FlushInterval)
}

// flushLocked inserts the buffered events with retries. Caller holds the
// lock.
func (bw *BatchWriter) flushLocked() error {
	if len(bw.buffer) == 0 {
		return nil
	}

	events := bw.buffer
	bw.buffer = make([]*schema.Event, 0, bw.config.BatchSize)

	var lastErr error
	for attempt := 0; attempt <= bw.config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(bw.config.RetryDelay * time.Duration(attempt))
		}
		if err := bw.insertBatch(events); err != nil {
			lastErr = err
			slog.Warn("batch insert failed, retrying",
				"attempt", attempt+1,
				"max_retries", bw.config.MaxRetries,
				"error", err,
			)
			continue
		}
		bw.written.Add(uint64(len(events)))
		bw.batches.Add(1)
		return nil
	}

	bw.failed.Add(uint64(len(events)))
	return fmt.Errorf("%w after %d retries: %v", ErrBatchInsertFailed, bw.config.MaxRetries, lastErr)
}

func (bw *BatchWriter) insertBatch(events []*schema.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch, err := bw.client.PrepareBatch(ctx, `
		INSERT INTO events (
			event_id, instant, received_at,
			source_product, source_url, source_version,
			kind, name, severity,
			host, host_id, object_id, status, acknowledged,
			tags.tag, tags.value,
			schema_version, metadata
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, event := range events {
		metadata, _ := json.Marshal(event.Metadata)

		tagNames := make([]string, len(event.Tags))
		tagValues := make([]string, len(event.Tags))
		for i, tag := range event.Tags {
			tagNames[i] = tag.Tag
			tagValues[i] = tag.Value
		}

		status := event.Status
		if status == "" {
			status = schema.StatusUnknown
		}
		acked := uint8(0)
		if event.Acknowledged {
			acked = 1
		}

		if err := batch.Append(
			event.EventID,
			event.Instant,
			event.ReceivedAt,
			event.Source.Product,
			event.Source.URL,
			event.Source.Version,
			string(event.Kind),
			event.Name,
			uint8(event.Severity),
			event.Host,
			event.HostID,
			event.ObjectID,
			string(status),
			acked,
			tagNames,
			tagValues,
			event.SchemaVersion,
			string(metadata),
		); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	slog.Debug("event batch inserted", "count", len(events))
	return nil
}

// Flush forces a flush of the current buffer.
func (bw *BatchWriter) Flush() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked()
}

// Close stops the flush timer and flushes remaining events.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return nil
	}
	bw.closed = true
	bw.mu.Unlock()

	bw.flushTimer.Stop()

	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked()
}

// Metrics returns batch writer statistics.
func (bw *BatchWriter) Metrics() BatchWriterMetrics {
	bw.mu.Lock()
	pending := len(bw.buffer)
	bw.mu.Unlock()

	return BatchWriterMetrics{
		Written: bw.written.Load(),
		Failed:  bw.failed.Load(),
		Batches: bw.batches.Load(),
		Pending: pending,
	}
}

// BatchWriterMetrics holds batch writer statistics.
type BatchWriterMetrics struct {
	Written uint64 `json:"written"`
	Failed  uint64 `json:"failed"`
	Batches uint64 `json:"batches"`
	Pending int    `json:"pending"`
}
