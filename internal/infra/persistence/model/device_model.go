package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel is the GORM-specific struct for the 'devices' table.
// It represents a GPS tracker unit installed in a vehicle.
type DeviceModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	VehicleID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeviceModel) TableName() string {
	return "devices"
}
