// Package config handles configuration loading for the bridge.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"zabbix-bridge/internal/checkpoint"
	"zabbix-bridge/internal/collector"
	"zabbix-bridge/internal/consumer"
	"zabbix-bridge/internal/kafka"
	s3storage "zabbix-bridge/internal/storage/s3"
	"zabbix-bridge/internal/zabbix"
)

// Config holds the complete application configuration.
type Config struct {
	Zabbix     zabbix.Config            `yaml:"zabbix"`
	Collector  collector.IngesterConfig `yaml:"collector"`
	Queue      QueueConfig              `yaml:"queue"`
	Validation ValidationConfig         `yaml:"validation"`
	Storage    StorageConfig            `yaml:"storage"`
	Consumer   consumer.Config          `yaml:"consumer"`
	Kafka      *kafka.Config            `yaml:"kafka"`
	Archive    *s3storage.Config        `yaml:"archive"`
	Checkpoint checkpoint.Config        `yaml:"checkpoint"`
	Logging    LoggingConfig            `yaml:"logging"`
}

// StorageConfig holds ClickHouse storage settings.
type StorageConfig struct {
	Enabled     bool              `yaml:"enabled"`
	ClickHouse  ClickHouseConfig  `yaml:"clickhouse"`
	BatchWriter BatchWriterConfig `yaml:"batch_writer"`
}

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Hosts           []string      `yaml:"hosts"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	TLSEnabled      bool          `yaml:"tls_enabled"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
}

// BatchWriterConfig holds batch writer settings.
type BatchWriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// QueueConfig holds queue settings.
type QueueConfig struct {
	Size int `yaml:"size"`
}

// ValidationConfig holds validation settings.
type ValidationConfig struct {
	MaxEventAge time.Duration `yaml:"max_event_age"`
	MaxFuture   time.Duration `yaml:"max_future"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Zabbix:    zabbix.DefaultConfig(),
		Collector: collector.DefaultIngesterConfig(),
		Queue: QueueConfig{
			Size: 100000,
		},
		Validation: ValidationConfig{
			MaxEventAge: 30 * 24 * time.Hour,
			MaxFuture:   5 * time.Minute,
		},
		Storage: StorageConfig{
			Enabled: false,
			ClickHouse: ClickHouseConfig{
				Hosts:           []string{"localhost:9000"},
				Database:        "zabbix_bridge",
				Username:        "default",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
				DialTimeout:     10 * time.Second,
			},
			BatchWriter: BatchWriterConfig{
				BatchSize:     500,
				FlushInterval: 5 * time.Second,
				MaxRetries:    3,
				RetryDelay:    time.Second,
			},
		},
		Consumer:   consumer.DefaultConfig(),
		Kafka:      kafka.DefaultConfig(),
		Archive:    s3storage.DefaultConfig(),
		Checkpoint: checkpoint.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a file or returns defaults. The file
// path comes from ZBX_BRIDGE_CONFIG_PATH, falling back to
// configs/config.yaml; a missing file is not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := os.Getenv("ZBX_BRIDGE_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Secrets
// belong here rather than in the config file.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ZBX_URL"); url != "" {
		c.Zabbix.BaseURL = url
	}
	if user := os.Getenv("ZBX_USERNAME"); user != "" {
		c.Zabbix.Username = user
	}
	if pass := os.Getenv("ZBX_PASSWORD"); pass != "" {
		c.Zabbix.Password = pass
	}

	if level := os.Getenv("ZBX_BRIDGE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if enabled := os.Getenv("ZBX_BRIDGE_STORAGE_ENABLED"); enabled == "true" {
		c.Storage.Enabled = true
	}
	if host := os.Getenv("CLICKHOUSE_HOST"); host != "" {
		c.Storage.ClickHouse.Hosts = splitAndTrim(host, ",")
	}
	if db := os.Getenv("CLICKHOUSE_DATABASE"); db != "" {
		c.Storage.ClickHouse.Database = db
	}
	if user := os.Getenv("CLICKHOUSE_USER"); user != "" {
		c.Storage.ClickHouse.Username = user
	}
	if pass := os.Getenv("CLICKHOUSE_PASSWORD"); pass != "" {
		c.Storage.ClickHouse.Password = pass
	}

	if c.Kafka != nil {
		if enabled := os.Getenv("ZBX_BRIDGE_KAFKA_ENABLED"); enabled == "true" {
			c.Kafka.Enabled = true
		}
		if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
			c.Kafka.Brokers = splitAndTrim(brokers, ",")
		}
		if pass := os.Getenv("KAFKA_SASL_PASSWORD"); pass != "" {
			c.Kafka.SASLPassword = pass
		}
	}

	if c.Archive != nil {
		if enabled := os.Getenv("ZBX_BRIDGE_ARCHIVE_ENABLED"); enabled == "true" {
			c.Archive.Enabled = true
		}
		if bucket := os.Getenv("ZBX_BRIDGE_ARCHIVE_BUCKET"); bucket != "" {
			c.Archive.Bucket = bucket
		}
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Checkpoint.Backend = "redis"
		c.Checkpoint.Redis.Addr = addr
	}
}

func splitAndTrim(s, sep string) []string {
	parts := make([]string, 0)
	for _, part := range strings.Split(s, sep) {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Zabbix.BaseURL == "" {
		return fmt.Errorf("zabbix base_url is required")
	}

	if c.Queue.Size <= 0 {
		return fmt.Errorf("queue size must be positive")
	}

	if c.Collector.PollInterval <= 0 {
		return fmt.Errorf("collector poll_interval must be positive")
	}

	if c.Collector.FetchLimit <= 0 {
		return fmt.Errorf("collector fetch_limit must be positive")
	}

	if c.Kafka != nil && c.Kafka.Enabled {
		if err := c.Kafka.Validate(); err != nil {
			return err
		}
	}

	if c.Archive != nil && c.Archive.Enabled {
		if err := c.Archive.Validate(); err != nil {
			return err
		}
	}

	return nil
}
