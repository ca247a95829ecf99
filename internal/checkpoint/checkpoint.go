// Package checkpoint persists poll cursors so the collector resumes
// where it left off after a restart instead of re-fetching history.
package checkpoint

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no cursor has been saved under a key.
var ErrNotFound = errors.New("checkpoint: not found")

// Store persists a time cursor per collection stream.
type Store interface {
	// Load returns the saved cursor for the key, or ErrNotFound.
	Load(ctx context.Context, key string) (time.Time, error)

	// Save records the cursor for the key.
	Save(ctx context.Context, key string, cursor time.Time) error

	Close() error
}

// Config selects and configures the checkpoint backend.
type Config struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

// DefaultConfig returns an in-memory checkpoint configuration.
func DefaultConfig() Config {
	return Config{
		Backend: "memory",
		Redis:   DefaultRedisConfig(),
	}
}

// NewStore builds the configured backend.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Redis)
	default:
		return nil, errors.New("checkpoint: unknown backend: " + cfg.Backend)
	}
}
