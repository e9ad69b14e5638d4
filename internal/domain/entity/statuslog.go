package entity

import (
	"time"

	"github.com/google/uuid"
)

// Geofence containment status values as persisted in status logs.
const (
	StatusInside  = "inside"
	StatusOutside = "outside"
	StatusUnknown = "unknown"
)

// Transition actions as persisted in status logs and notifications.
const (
	ActionEnter = "enter"
	ActionExit  = "exit"
)

// GeofenceStatusLog is one append-only transition record for a
// (device, geofence) pair. The most recent record for a pair defines the
// pair's current status; no record means the status is unknown. Rows are
// written by the geofence pipeline only and never mutated.
type GeofenceStatusLog struct {
	ID               uuid.UUID `json:"id"`                // The unique identifier for the log entry.
	DeviceID         uuid.UUID `json:"device_id"`         // The device the transition belongs to.
	DeviceIdentifier string    `json:"device_identifier"` // The tracker-reported correlation key at event time.
	DeviceName       string    `json:"device_name"`       // Device display name snapshot.
	GeofenceID       uuid.UUID `json:"geofence_id"`       // The geofence the transition belongs to.
	GeofenceName     string    `json:"geofence_name"`     // Geofence display name snapshot.
	OwnerID          uuid.UUID `json:"owner_id"`          // The owning user at event time.
	Action           string    `json:"action"`            // "enter" or "exit".
	Status           string    `json:"status"`            // "inside" or "outside" after the transition.
	Latitude         float64   `json:"latitude"`          // Location snapshot that triggered the transition.
	Longitude        float64   `json:"longitude"`         // Location snapshot that triggered the transition.
	CreatedAt        time.Time `json:"created_at"`        // Timestamp of the transition.
}
