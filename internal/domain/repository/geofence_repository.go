package repository

import (
	"context"

	"geowatch/internal/domain/entity"

	"github.com/google/uuid"
)

// GeofenceRepository defines the read interface for geofences.
type GeofenceRepository interface {
	// FindActiveGeofences retrieves every active geofence registered for
	// the given device and owner. An empty result is not an error.
	FindActiveGeofences(ctx context.Context, deviceID, ownerID uuid.UUID) ([]*entity.Geofence, error)
}
