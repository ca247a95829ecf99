// Package s3 archives event batches to S3-compatible object storage.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config holds S3 connection and behavior configuration.
type Config struct {
	// Enabled toggles the archive stage of the pipeline.
	Enabled bool `yaml:"enabled"`

	// Region is the AWS region.
	Region string `yaml:"region"`

	// Bucket is the S3 bucket name.
	Bucket string `yaml:"bucket"`

	// Prefix is the key prefix for all objects.
	Prefix string `yaml:"prefix"`

	// Endpoint is an optional custom endpoint for S3-compatible
	// storage such as MinIO.
	Endpoint string `yaml:"endpoint,omitempty"`

	// AccessKeyID for static credentials. IAM is used if not set.
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty"`

	// StorageClass for uploaded objects.
	StorageClass string `yaml:"storage_class"`

	// UsePathStyle forces path-style addressing (for MinIO, etc.).
	UsePathStyle bool `yaml:"use_path_style"`

	// RetryMaxAttempts for failed operations.
	RetryMaxAttempts int `yaml:"retry_max_attempts"`

	// BatchSize is how many events an archive object holds at most.
	BatchSize int `yaml:"batch_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Region:           "us-east-1",
		Bucket:           "zabbix-bridge-archive",
		Prefix:           "events/",
		StorageClass:     "INTELLIGENT_TIERING",
		RetryMaxAttempts: 3,
		BatchSize:        1000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Region == "" {
		return errors.New("s3: region is required")
	}
	if c.Bucket == "" {
		return errors.New("s3: bucket is required")
	}
	if c.BatchSize < 1 {
		return errors.New("s3: batch size must be at least 1")
	}
	return nil
}

// GetStorageClass returns the S3 storage class type.
func (c *Config) GetStorageClass() types.StorageClass {
	switch strings.ToUpper(c.StorageClass) {
	case "STANDARD":
		return types.StorageClassStandard
	case "STANDARD_IA":
		return types.StorageClassStandardIa
	case "ONEZONE_IA":
		return types.StorageClassOnezoneIa
	case "INTELLIGENT_TIERING":
		return types.StorageClassIntelligentTiering
	case "GLACIER":
		return types.StorageClassGlacier
	case "DEEP_ARCHIVE":
		return types.StorageClassDeepArchive
	case "GLACIER_IR":
		return types.StorageClassGlacierIr
	default:
		return types.StorageClassStandard
	}
}

// Client uploads archive objects to the configured bucket.
type Client struct {
	client *s3.Client
	config *Config
	logger *slog.Logger

	bytesUploaded   atomic.Int64
	objectsUploaded atomic.Int64
	uploadErrors    atomic.Int64
}

// NewClient creates a new S3 client.
func NewClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.SessionToken,
		)
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	if cfg.RetryMaxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.RetryMaxAttempts))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	c := &Client{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		config: cfg,
		logger: logger,
	}

	logger.Info("s3 client initialized",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"storage_class", cfg.StorageClass,
	)

	return c, nil
}

// Put uploads one object under the configured prefix.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	fullKey := c.config.Prefix + key

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.config.Bucket),
		Key:          aws.String(fullKey),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		StorageClass: c.config.GetStorageClass(),
	})
	if err != nil {
		c.uploadErrors.Add(1)
		return fmt.Errorf("s3: failed to upload object %s: %w", fullKey, err)
	}

	c.bytesUploaded.Add(int64(len(body)))
	c.objectsUploaded.Add(1)

	c.logger.Debug("uploaded object", "key", fullKey, "size", len(body))
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.Bucket),
	})
	return time.Since(start), err
}

// Metrics contains S3 client counters.
type Metrics struct {
	BytesUploaded   int64
	ObjectsUploaded int64
	Errors          int64
}

// GetMetrics returns current client metrics.
func (c *Client) GetMetrics() Metrics {
	return Metrics{
		BytesUploaded:   c.bytesUploaded.Load(),
		ObjectsUploaded: c.objectsUploaded.Load(),
		Errors:          c.uploadErrors.Load(),
	}
}
