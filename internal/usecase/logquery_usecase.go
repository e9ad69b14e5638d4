package usecase

import (
	"context"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/errors"

	"github.com/google/uuid"
)

// ErrNotDeviceOwner is returned when a user queries a device that belongs
// to someone else.
var ErrNotDeviceOwner = errors.New("device does not belong to user")

// LogQueryRequest narrows a status-log listing. Zero-value fields fall
// back to defaults.
type LogQueryRequest struct {
	DeviceID uuid.UUID
	Start    *time.Time
	End      *time.Time
	Limit    int
}

// GeofenceCurrentStatus is the latest known containment state of one
// geofence, derived from its most recent status log.
type GeofenceCurrentStatus struct {
	GeofenceName string    `json:"geofence_name"`
	Status       string    `json:"status"`
	Since        time.Time `json:"since"`
}

// GeofenceStats aggregates a device's transition history over a window.
type GeofenceStats struct {
	DeviceID         uuid.UUID                        `json:"device_id"`
	Days             int                              `json:"days"`
	TotalEvents      int                              `json:"total_events"`
	EnterEvents      int                              `json:"enter_events"`
	ExitEvents       int                              `json:"exit_events"`
	GeofencesTracked int                              `json:"geofences_tracked"`
	CurrentStatus    map[string]GeofenceCurrentStatus `json:"current_status"` // keyed by geofence ID
}

// LogQueryUsecase defines the read-side interface over the transition
// history, scoped to the requesting user's own devices.
type LogQueryUsecase interface {
	// QueryLogs lists transition logs for one of the user's devices,
	// newest first.
	QueryLogs(ctx context.Context, userID uuid.UUID, req LogQueryRequest) ([]*entity.GeofenceStatusLog, error)

	// GetStats aggregates the transition history of one of the user's
	// devices over the trailing number of days.
	GetStats(ctx context.Context, userID uuid.UUID, deviceID uuid.UUID, days int) (*GeofenceStats, error)
}
