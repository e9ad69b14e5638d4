package service

import (
	"context"
	"encoding/json"
)

// LocationEvent is one GPS reading reported by a tracker. The payload is
// kept opaque at the edge; the worker's GPS validator normalizes it.
type LocationEvent struct {
	RequestID string          `json:"request_id,omitempty"` // For distributed tracing
	DeviceKey string          `json:"device_key"`           // Tracker-reported device name
	Payload   json.RawMessage `json:"payload"`              // Raw location payload, any historical shape
}

// RelayEvent is one relay (ignition) state report. The relay value stays
// raw because firmware variants report non-boolean garbage that the
// pipeline must skip rather than reject at the edge.
type RelayEvent struct {
	RequestID string          `json:"request_id,omitempty"`
	DeviceKey string          `json:"device_key"`
	Relay     json.RawMessage `json:"relay"`
}

// EventPublisher defines the interface for handing tracker events to the
// worker via a message queue.
type EventPublisher interface {
	// PublishLocationEvent publishes a location event for async processing.
	PublishLocationEvent(ctx context.Context, event *LocationEvent) error

	// PublishRelayEvent publishes a relay-state event for async processing.
	PublishRelayEvent(ctx context.Context, event *RelayEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
