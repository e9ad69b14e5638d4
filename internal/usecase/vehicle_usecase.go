package usecase

import (
	"context"
	"encoding/json"
)

// RelayResult summarizes one run of the vehicle power-state pipeline.
type RelayResult struct {
	Skipped     bool   `json:"skipped"` // non-boolean relay values are skipped, not rejected
	SkipReason  string `json:"skip_reason,omitempty"`
	PowerOn     bool   `json:"power_on"`
	DisplayName string `json:"display_name"` // vehicle name when linked, device name otherwise
	Suppressed  bool   `json:"suppressed"`   // cooldown swallowed the alert
	Dispatched  bool   `json:"dispatched"`
}

// VehicleStatusUsecase defines the interface for the relay-driven vehicle
// power-state pipeline.
type VehicleStatusUsecase interface {
	// ProcessRelayState interprets one raw relay value and dispatches a
	// power-state alert when the value is a proper boolean.
	ProcessRelayState(ctx context.Context, deviceKey string, relay json.RawMessage) (*RelayResult, error)
}
