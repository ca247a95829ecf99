package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"zabbix-bridge/internal/schema"

	"github.com/segmentio/kafka-go"
)

// ErrProducerClosed is returned when publishing after Close.
var ErrProducerClosed = fmt.Errorf("kafka: producer is closed")

// Producer publishes normalized events to the configured topic. Events
// from the same host share a key so partition order follows host order.
type Producer struct {
	writer *kafka.Writer
	config *Config
	logger *slog.Logger
	closed atomic.Bool

	published atomic.Int64
	errors    atomic.Int64
	retries   atomic.Int64
}

// NewProducer creates a Kafka producer for the event topic.
func NewProducer(config *Config, logger *slog.Logger) (*Producer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dialer, err := config.GetDialer()
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		MaxAttempts:  config.MaxRetries,
		WriteTimeout: config.WriteTimeout,
		ReadTimeout:  config.ReadTimeout,
		RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
		Compression:  config.GetCompression(),
		Transport: &kafka.Transport{
			Dial: dialer.DialFunc,
			TLS:  dialer.TLS,
			SASL: dialer.SASLMechanism,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), "component", "kafka-writer")
		}),
	}

	p := &Producer{
		writer: writer,
		config: config,
		logger: logger,
	}

	logger.Info("kafka producer initialized",
		"brokers", config.Brokers,
		"topic", config.Topic,
		"compression", config.CompressionType,
	)

	return p, nil
}

// PublishEvent marshals the event and sends it keyed by host.
func (p *Producer) PublishEvent(ctx context.Context, event *schema.Event) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal event: %w", err)
	}

	key := event.Host
	if key == "" {
		key = event.EventID.String()
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.ReceivedAt,
	}

	return p.produce(ctx, msg)
}

func (p *Producer) produce(ctx context.Context, msg kafka.Message) error {
	var lastErr error
	backoff := p.config.RetryBackoff

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.retries.Add(1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			p.published.Add(1)
			return nil
		}

		lastErr = err
		p.errors.Add(1)
		p.logger.Warn("kafka publish failed",
			"error", err,
			"attempt", attempt+1,
			"max_attempts", p.config.MaxRetries+1,
		)

		if isNonRetryableError(err) {
			return fmt.Errorf("kafka: non-retryable error: %w", err)
		}
	}

	return fmt.Errorf("kafka: failed after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}

// Metrics holds cumulative producer counters.
type Metrics struct {
	Published int64
	Errors    int64
	Retries   int64
}

// GetMetrics returns current producer metrics.
func (p *Producer) GetMetrics() Metrics {
	return Metrics{
		Published: p.published.Load(),
		Errors:    p.errors.Load(),
		Retries:   p.retries.Load(),
	}
}

// Close closes the producer and flushes any buffered messages.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}

	p.logger.Info("closing kafka producer", "published", p.published.Load())

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka: failed to close producer: %w", err)
	}
	return nil
}

func isNonRetryableError(err error) bool {
	switch err {
	case kafka.MessageSizeTooLarge:
		return true
	case kafka.InvalidTopic:
		return true
	case kafka.TopicAuthorizationFailed:
		return true
	case kafka.ClusterAuthorizationFailed:
		return true
	}
	return false
}
