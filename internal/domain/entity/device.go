// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Device represents a GPS tracker unit installed in a vehicle. The Name is
// the correlation key the tracker reports with every event; provisioning
// owns the record, the pipelines only read it.
type Device struct {
	ID        uuid.UUID  `json:"id"`         // The unique identifier for the device.
	Name      string     `json:"name"`       // Tracker-reported name, used to correlate incoming events.
	OwnerID   uuid.UUID  `json:"owner_id"`   // The ID of the user who owns this device.
	VehicleID *uuid.UUID `json:"vehicle_id"` // Optional reference to the vehicle the device is installed in.
	CreatedAt time.Time  `json:"created_at"` // Timestamp of when this device was provisioned.
	UpdatedAt time.Time  `json:"updated_at"` // Timestamp of the last modification.
}

// Vehicle represents a tracked vehicle. Read-only to the pipelines; its
// display name is preferred when rendering power-state notifications.
type Vehicle struct {
	ID        uuid.UUID  `json:"id"`         // The unique identifier for the vehicle.
	Name      string     `json:"name"`       // Display name shown in notifications.
	OwnerID   uuid.UUID  `json:"owner_id"`   // The ID of the user who owns this vehicle.
	DeviceID  *uuid.UUID `json:"device_id"`  // Optional reference to the installed tracker device.
	CreatedAt time.Time  `json:"created_at"` // Timestamp of when this vehicle was registered.
	UpdatedAt time.Time  `json:"updated_at"` // Timestamp of the last modification.
}
