package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds carried in the push data payload and persisted on
// notification records.
const (
	NotificationKindGeofence      = "geofence_alert"
	NotificationKindVehicleStatus = "vehicle_status"
)

// NotificationRecord is the audit row written once per dispatched (or
// attempted) push notification. It doubles as the cooldown gate's lookup
// source: a recent record for the same (device, context) suppresses the
// next send. Append-only.
type NotificationRecord struct {
	ID               uuid.UUID `json:"id"`                // The unique identifier for the record.
	OwnerID          uuid.UUID `json:"owner_id"`          // The user the notification was addressed to.
	DeviceID         uuid.UUID `json:"device_id"`         // The device that triggered the notification.
	DeviceIdentifier string    `json:"device_identifier"` // The tracker-reported correlation key at event time.
	DeviceName       string    `json:"device_name"`       // Device display name snapshot.
	Kind             string    `json:"kind"`              // "geofence_alert" or "vehicle_status".
	Context          string    `json:"context"`           // Cooldown context: geofence name, or the kind for power-state.
	Action           string    `json:"action"`            // "enter"/"exit" for geofences, "on"/"off" for power-state.
	Message          string    `json:"message"`           // The rendered notification body.
	Latitude         *float64  `json:"latitude"`          // Location snapshot; nil for power-state notifications.
	Longitude        *float64  `json:"longitude"`         // Location snapshot; nil for power-state notifications.
	Read             bool      `json:"read"`              // Whether the app has marked the notification read.
	SentToTokens     int       `json:"sent_to_tokens"`    // Number of tokens that accepted delivery.
	TotalTokens      int       `json:"total_tokens"`      // Number of tokens targeted.
	CreatedAt        time.Time `json:"created_at"`        // Timestamp of the dispatch attempt.
}
