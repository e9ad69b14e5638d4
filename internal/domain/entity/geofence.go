package entity

import (
	"time"

	"geowatch/internal/geo"

	"github.com/google/uuid"
)

// Geofence represents a named polygonal region watched for one device.
// The pipelines never mutate geofences; the mobile app owns them.
type Geofence struct {
	ID        uuid.UUID    `json:"id"`         // The unique identifier for the geofence.
	OwnerID   uuid.UUID    `json:"owner_id"`   // The ID of the user who owns this geofence.
	DeviceID  uuid.UUID    `json:"device_id"`  // The device this geofence is evaluated against.
	Name      string       `json:"name"`       // Display name, also the cooldown context key.
	Active    bool         `json:"active"`     // Inactive geofences are never evaluated.
	Points    []geo.Vertex `json:"points"`     // Ordered boundary vertices; fewer than 3 makes the geofence invalid.
	CreatedAt time.Time    `json:"created_at"` // Timestamp of when this geofence was created.
	UpdatedAt time.Time    `json:"updated_at"` // Timestamp of the last modification.
}

// HasValidPolygon reports whether the geofence carries enough vertices to
// form a polygon. Invalid geofences are skipped during evaluation, never
// treated as containing the device.
func (g *Geofence) HasValidPolygon() bool {
	return len(g.Points) >= 3
}
