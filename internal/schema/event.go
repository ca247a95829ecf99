// Package schema defines the canonical event format the bridge produces.
// Everything pulled from the monitoring platform is normalized to this
// structure before it is queued, stored, or republished.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// Event is one canonical monitoring event.
type Event struct {
	// Required fields
	EventID  uuid.UUID `json:"event_id" validate:"required"`
	Instant  time.Time `json:"instant" validate:"required"`
	Source   Source    `json:"source" validate:"required"`
	Kind     Kind      `json:"kind" validate:"required,oneof=problem recovery discovery internal"`
	Name     string    `json:"name" validate:"required,max=2048"`
	Severity int       `json:"severity" validate:"required,min=1,max=10"`

	// Optional fields
	Host         string         `json:"host,omitempty" validate:"max=256"`
	HostID       string         `json:"host_id,omitempty" validate:"max=64"`
	ObjectID     string         `json:"object_id,omitempty" validate:"max=64"`
	Status       Status         `json:"status,omitempty" validate:"omitempty,oneof=open resolved unknown"`
	Acknowledged bool           `json:"acknowledged,omitempty"`
	Tags         []Tag          `json:"tags,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	// Internal fields (set by the bridge)
	SchemaVersion string    `json:"schema_version"`
	ReceivedAt    time.Time `json:"received_at"`
}

// Source identifies the monitoring platform instance an event came from.
type Source struct {
	Product string `json:"product" validate:"required,max=256"`
	URL     string `json:"url,omitempty" validate:"max=512"`
	Version string `json:"version,omitempty" validate:"max=64"`
}

// Tag is one name/value tag attached to an event.
type Tag struct {
	Tag   string `json:"tag" validate:"required,max=256"`
	Value string `json:"value,omitempty" validate:"max=256"`
}

// Kind classifies what generated an event.
type Kind string

const (
	KindProblem   Kind = "problem"
	KindRecovery  Kind = "recovery"
	KindDiscovery Kind = "discovery"
	KindInternal  Kind = "internal"
)

// IsValid checks if the kind is a valid value.
func (k Kind) IsValid() bool {
	switch k {
	case KindProblem, KindRecovery, KindDiscovery, KindInternal:
		return true
	}
	return false
}

// Status is the lifecycle state of the underlying problem.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusUnknown  Status = "unknown"
)

// IsValid checks if the status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusResolved, StatusUnknown:
		return true
	}
	return false
}

// SchemaVersionCurrent is the current version of the event schema.
const SchemaVersionCurrent = "1.0.0"
