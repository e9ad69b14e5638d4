package model

import (
	"time"

	"github.com/google/uuid"
)

// VehicleModel is the GORM-specific struct for the 'vehicles' table.
type VehicleModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string     `gorm:"type:varchar(255);not null"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (VehicleModel) TableName() string {
	return "vehicles"
}
