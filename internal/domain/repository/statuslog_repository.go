package repository

import (
	"context"
	"errors"
	"time"

	"geowatch/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStatusLogNotFound is returned when no status log exists for a
// (device, geofence) pair. Callers treat it as status UNKNOWN.
var ErrStatusLogNotFound = errors.New("geofence status log not found")

// StatusLogQuery narrows a status-log listing. Zero-value fields are
// ignored.
type StatusLogQuery struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// StatusLogRepository defines the persistence interface for geofence
// status logs. Logs are append-only; there is no update or delete here.
type StatusLogRepository interface {
	// FindLatestStatus retrieves the most recent log entry for a
	// (device, geofence) pair, or ErrStatusLogNotFound when none exists.
	FindLatestStatus(ctx context.Context, deviceID, geofenceID uuid.UUID) (*entity.GeofenceStatusLog, error)

	// BatchCreateStatusLogs persists all log entries of one pipeline
	// invocation in a single atomic commit.
	BatchCreateStatusLogs(ctx context.Context, logs []*entity.GeofenceStatusLog) error

	// FindLogsByDevice lists log entries for a device, newest first.
	FindLogsByDevice(ctx context.Context, deviceID uuid.UUID, query StatusLogQuery) ([]*entity.GeofenceStatusLog, error)
}
