// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"geowatch/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrVehicleNotFound is returned when a vehicle is not found.
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// DeviceRepository defines the read interface for devices and vehicles.
// The pipelines only resolve them; provisioning lives elsewhere.
type DeviceRepository interface {
	// FindDeviceByName retrieves a device by its tracker-reported name,
	// the correlation key carried by every incoming event.
	FindDeviceByName(ctx context.Context, name string) (*entity.Device, error)

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.Device, error)

	// FindVehicleByID retrieves a vehicle by its unique ID.
	FindVehicleByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error)
}
