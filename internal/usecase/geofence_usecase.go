package usecase

import (
	"context"

	"geowatch/internal/geo"

	"github.com/google/uuid"
)

// StatusChange describes one geofence transition detected while
// processing a location event.
type StatusChange struct {
	GeofenceID     uuid.UUID `json:"geofence_id"`
	GeofenceName   string    `json:"geofence_name"`
	Action         string    `json:"action"`          // "enter" or "exit"
	PreviousStatus string    `json:"previous_status"` // "inside", "outside" or "unknown"
	CurrentStatus  string    `json:"current_status"`  // "inside" or "outside"
}

// ProcessResult summarizes one run of the geofence pipeline.
type ProcessResult struct {
	DeviceID           uuid.UUID       `json:"device_id"`
	DeviceName         string          `json:"device_name"`
	Location           geo.Coordinates `json:"location"`
	EvaluatedGeofences int             `json:"evaluated_geofences"`
	SkippedGeofences   int             `json:"skipped_geofences"` // geofences with fewer than 3 vertices
	Changes            []StatusChange  `json:"changes"`
}

// GeofencePipelineUsecase defines the interface for the location-driven
// geofence transition pipeline.
type GeofencePipelineUsecase interface {
	// ProcessLocation validates one raw location payload, evaluates every
	// active geofence of the reporting device, persists the detected
	// transitions in a single batch and dispatches one alert per transition.
	ProcessLocation(ctx context.Context, deviceKey string, payload map[string]any) (*ProcessResult, error)
}
