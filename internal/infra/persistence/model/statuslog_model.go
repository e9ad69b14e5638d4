package model

import (
	"time"

	"github.com/google/uuid"
)

// GeofenceStatusLogModel is the GORM-specific struct for the
// 'geofence_status_logs' table. Device and geofence names are denormalized
// so log queries never join against rows that may have been renamed.
type GeofenceStatusLogModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DeviceID         uuid.UUID `gorm:"type:uuid;not null;index:idx_status_logs_device_created"`
	DeviceIdentifier string    `gorm:"type:varchar(255);not null"`
	DeviceName       string    `gorm:"type:varchar(255);not null"`
	GeofenceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	GeofenceName     string    `gorm:"type:varchar(255);not null"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Action           string    `gorm:"type:varchar(20);not null"`
	Status           string    `gorm:"type:varchar(20);not null"`
	Latitude         float64   `gorm:"not null"`
	Longitude        float64   `gorm:"not null"`
	CreatedAt        time.Time `gorm:"index:idx_status_logs_device_created"`
}

// TableName explicitly sets the table name for GORM.
func (GeofenceStatusLogModel) TableName() string {
	return "geofence_status_logs"
}
