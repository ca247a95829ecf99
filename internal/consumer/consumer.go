// Package consumer drains the pipeline queue into the configured sinks.
package consumer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"zabbix-bridge/internal/queue"
	"zabbix-bridge/internal/schema"
)

// EventSink receives events popped from the queue. Implemented by the
// ClickHouse batch writer and the S3 archiver.
type EventSink interface {
	Write(event *schema.Event) error
	Flush() error
}

// Publisher republishes events to an external stream. Implemented by
// the Kafka producer.
type Publisher interface {
	PublishEvent(ctx context.Context, event *schema.Event) error
}

// Config holds the consumer configuration.
type Config struct {
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ShutdownWait time.Duration `yaml:"shutdown_wait"`
}

// DefaultConfig returns the default consumer configuration.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		PollInterval: 10 * time.Millisecond,
		ShutdownWait: 30 * time.Second,
	}
}

// Consumer reads events from the queue and fans them out to every sink.
// A sink failure is counted and logged but does not block the others.
type Consumer struct {
	queue     *queue.RingBuffer
	sinks     []EventSink
	publisher Publisher
	config    Config

	wg   sync.WaitGroup
	done chan struct{}

	consumed atomic.Uint64
	errors   atomic.Uint64
}

// New creates a Consumer. The publisher may be nil.
func New(q *queue.RingBuffer, sinks []EventSink, publisher Publisher, cfg Config) *Consumer {
	return &Consumer{
		queue:     q,
		sinks:     sinks,
		publisher: publisher,
		config:    cfg,
		done:      make(chan struct{}),
	}
}

// Start starts the consumer workers.
func (c *Consumer) Start(ctx context.Context) {
	for i := 0; i < c.config.Workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i)
	}

	slog.Info("queue consumer started", "workers", c.config.Workers, "sinks", len(c.sinks))
}

func (c *Consumer) worker(ctx context.Context, id int) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
			event, err := c.queue.PopWithTimeout(c.config.PollInterval)
			if err != nil {
				if err == queue.ErrEmpty {
					continue
				}
				if err == queue.ErrClosed {
					return
				}
				slog.Warn("unexpected queue error", "worker_id", id, "error", err)
				c.errors.Add(1)
				continue
			}

			c.dispatch(ctx, id, event)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, workerID int, event *schema.Event) {
	ok := true
	for _, sink := range c.sinks {
		if err := sink.Write(event); err != nil {
			slog.Error("sink write failed",
				"worker_id", workerID,
				"event_id", event.EventID,
				"error", err,
			)
			c.errors.Add(1)
			ok = false
		}
	}

	if c.publisher != nil {
		if err := c.publisher.PublishEvent(ctx, event); err != nil {
			slog.Error("publish failed",
				"worker_id", workerID,
				"event_id", event.EventID,
				"error", err,
			)
			c.errors.Add(1)
			ok = false
		}
	}

	if ok {
		c.consumed.Add(1)
	}
}

// Stop stops the consumer gracefully and flushes every sink.
func (c *Consumer) Stop() {
	close(c.done)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("queue consumer stopped gracefully")
	case <-time.After(c.config.ShutdownWait):
		slog.Warn("queue consumer shutdown timed out")
	}

	for _, sink := range c.sinks {
		if err := sink.Flush(); err != nil {
			slog.Error("final flush failed", "error", err)
		}
	}
}

// Metrics returns consumer statistics.
func (c *Consumer) Metrics() Metrics {
	return Metrics{
		Consumed: c.consumed.Load(),
		Errors:   c.errors.Load(),
	}
}

// Metrics holds consumer statistics.
type Metrics struct {
	Consumed uint64 `json:"consumed"`
	Errors   uint64 `json:"errors"`
}
