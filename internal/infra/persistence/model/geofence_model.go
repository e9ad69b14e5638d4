package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GeofenceModel is the GORM-specific struct for the 'geofences' table.
// Points stores the polygon vertices as a JSONB array so historical
// vertex shapes survive round-trips unchanged.
type GeofenceModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	DeviceID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Active    bool           `gorm:"not null;default:true"`
	Points    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (GeofenceModel) TableName() string {
	return "geofences"
}
