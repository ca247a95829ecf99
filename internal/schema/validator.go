package schema

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator checks events against the canonical schema before they enter
// the pipeline.
type Validator struct {
	validate  *validator.Validate
	maxAge    time.Duration
	maxFuture time.Duration
}

// ValidatorConfig holds configuration for the validator.
type ValidatorConfig struct {
	MaxAge    time.Duration
	MaxFuture time.Duration
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MaxAge:    30 * 24 * time.Hour,
		MaxFuture: 5 * time.Minute,
	}
}

// NewValidator creates a Validator with default configuration.
func NewValidator() *Validator {
	return NewValidatorWithConfig(DefaultValidatorConfig())
}

// NewValidatorWithConfig creates a Validator with the given configuration.
func NewValidatorWithConfig(cfg ValidatorConfig) *Validator {
	return &Validator{
		validate:  validator.New(),
		maxAge:    cfg.MaxAge,
		maxFuture: cfg.MaxFuture,
	}
}

// Validate validates an event against the canonical schema.
func (v *Validator) Validate(event *Event) error {
	if err := v.validate.Struct(event); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	if event.Instant.IsZero() {
		return fmt.Errorf("instant is required")
	}
	if event.Instant.Before(now.Add(-v.maxAge)) {
		return fmt.Errorf("instant too old: %v (max age: %v)", event.Instant, v.maxAge)
	}
	if event.Instant.After(now.Add(v.maxFuture)) {
		return fmt.Errorf("instant in future: %v (max future: %v)", event.Instant, v.maxFuture)
	}

	if event.Source.Product == "" {
		return fmt.Errorf("source.product is required")
	}

	return nil
}
