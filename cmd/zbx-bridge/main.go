// Package main is the entry point for the bridge daemon: it polls the
// monitoring API and pushes normalized events through the pipeline.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"zabbix-bridge/internal/checkpoint"
	"zabbix-bridge/internal/collector"
	"zabbix-bridge/internal/config"
	"zabbix-bridge/internal/consumer"
	"zabbix-bridge/internal/kafka"
	"zabbix-bridge/internal/queue"
	"zabbix-bridge/internal/schema"
	"zabbix-bridge/internal/storage"
	s3storage "zabbix-bridge/internal/storage/s3"
	"zabbix-bridge/internal/zabbix"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"zabbix_url", cfg.Zabbix.BaseURL,
		"queue_size", cfg.Queue.Size,
		"storage_enabled", cfg.Storage.Enabled,
		"kafka_enabled", cfg.Kafka != nil && cfg.Kafka.Enabled,
		"archive_enabled", cfg.Archive != nil && cfg.Archive.Enabled,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The pipeline consumes listings as plain slices; the collector's
	// client therefore resolves at the data level regardless of what
	// the config asks for elsewhere.
	zbxCfg := cfg.Zabbix
	zbxCfg.Level = zabbix.LevelData
	client := zabbix.NewClient(zbxCfg)

	if version, err := client.APIVersion(ctx); err != nil {
		slog.Warn("could not reach monitoring API, polling will retry", "error", err)
	} else {
		slog.Info("connected to monitoring API", "version", version)
	}

	eventQueue := queue.NewRingBuffer(cfg.Queue.Size)

	cursors, err := checkpoint.NewStore(cfg.Checkpoint)
	if err != nil {
		slog.Error("failed to open checkpoint store", "error", err)
		os.Exit(1)
	}
	defer cursors.Close()

	// Storage sinks
	var sinks []consumer.EventSink
	var chClient *storage.ClickHouseClient
	var batchWriter *storage.BatchWriter
	var sampleSink collector.SampleSink

	if cfg.Storage.Enabled {
		slog.Info("initializing ClickHouse storage",
			"hosts", cfg.Storage.ClickHouse.Hosts,
			"database", cfg.Storage.ClickHouse.Database,
		)

		chClient, err = storage.NewClickHouseClient(storage.ClickHouseConfig{
			Hosts:           cfg.Storage.ClickHouse.Hosts,
			Database:        cfg.Storage.ClickHouse.Database,
			Username:        cfg.Storage.ClickHouse.Username,
			Password:        cfg.Storage.ClickHouse.Password,
			MaxOpenConns:    cfg.Storage.ClickHouse.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.ClickHouse.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.ClickHouse.ConnMaxLifetime,
			TLSEnabled:      cfg.Storage.ClickHouse.TLSEnabled,
			DialTimeout:     cfg.Storage.ClickHouse.DialTimeout,
		})
		if err != nil {
			slog.Error("failed to connect to ClickHouse", "error", err)
			os.Exit(1)
		}

		slog.Info("running database migrations")
		migrator := storage.NewMigrator(chClient)
		if err := migrator.Run(ctx); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		batchWriter = storage.NewBatchWriter(chClient, storage.BatchWriterConfig{
			BatchSize:     cfg.Storage.BatchWriter.BatchSize,
			FlushInterval: cfg.Storage.BatchWriter.FlushInterval,
			MaxRetries:    cfg.Storage.BatchWriter.MaxRetries,
			RetryDelay:    cfg.Storage.BatchWriter.RetryDelay,
		})
		sinks = append(sinks, batchWriter)
		sampleSink = storage.NewSampleWriter(chClient)
	}

	// Optional S3 archive
	if cfg.Archive != nil && cfg.Archive.Enabled {
		s3Client, err := s3storage.NewClient(ctx, cfg.Archive, logger)
		if err != nil {
			slog.Error("failed to initialize archive", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, s3storage.NewArchiver(s3Client, cfg.Archive.BatchSize))
	}

	// Optional Kafka republishing
	var producer *kafka.Producer
	if cfg.Kafka != nil && cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			slog.Error("failed to initialize kafka producer", "error", err)
			os.Exit(1)
		}
	}

	var publisher consumer.Publisher
	if producer != nil {
		publisher = producer
	}

	if len(sinks) == 0 && publisher == nil {
		slog.Warn("no sinks configured, events will be collected and dropped")
		sinks = append(sinks, logSink{})
	}

	queueConsumer := consumer.New(eventQueue, sinks, publisher, cfg.Consumer)
	queueConsumer.Start(ctx)

	normalizer := collector.NewNormalizer(collector.NormalizerConfig{
		SourceURL: cfg.Zabbix.BaseURL,
	})
	eventValidator := schema.NewValidatorWithConfig(schema.ValidatorConfig{
		MaxAge:    cfg.Validation.MaxEventAge,
		MaxFuture: cfg.Validation.MaxFuture,
	})
	ingester := collector.NewIngester(client, normalizer, eventValidator, eventQueue, cursors, sampleSink, logger, cfg.Collector)
	go ingester.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())

	cancel()
	queueConsumer.Stop()

	if producer != nil {
		if err := producer.Close(); err != nil {
			slog.Error("kafka close error", "error", err)
		}
	}
	if batchWriter != nil {
		if err := batchWriter.Close(); err != nil {
			slog.Error("batch writer close error", "error", err)
		}
	}
	if chClient != nil {
		if err := chClient.Close(); err != nil {
			slog.Error("clickhouse close error", "error", err)
		}
	}

	eventQueue.Close()

	queueMetrics := eventQueue.Metrics()
	slog.Info("shutdown complete",
		"events_pushed", queueMetrics.Pushed,
		"events_popped", queueMetrics.Popped,
		"events_dropped", queueMetrics.Dropped,
	)

	if batchWriter != nil {
		bwMetrics := batchWriter.Metrics()
		slog.Info("storage metrics",
			"events_written", bwMetrics.Written,
			"events_failed", bwMetrics.Failed,
			"batches", bwMetrics.Batches,
		)
	}
}

func setupLogging(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// logSink logs events instead of persisting them. Used when the daemon
// runs without storage, kafka, or archive configured.
type logSink struct{}

func (logSink) Write(event *schema.Event) error {
	slog.Debug("event processed (no sink configured)",
		"event_id", event.EventID,
		"name", event.Name,
		"severity", event.Severity,
	)
	return nil
}

func (logSink) Flush() error { return nil }
