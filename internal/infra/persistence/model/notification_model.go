package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRecordModel is the GORM-specific struct for the
// 'notification_records' table. One row is written per dispatched alert
// and doubles as the cooldown marker for its (device, context) pair.
type NotificationRecordModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_device_context_created"`
	DeviceIdentifier string     `gorm:"type:varchar(255);not null"`
	DeviceName       string     `gorm:"type:varchar(255);not null"`
	Kind             string     `gorm:"type:varchar(50);not null"`
	Context          string     `gorm:"type:varchar(255);not null;index:idx_notification_device_context_created"`
	Action           string     `gorm:"type:varchar(20);not null"`
	Message          string     `gorm:"type:text;not null"`
	Latitude         *float64
	Longitude        *float64
	Read             bool      `gorm:"not null;default:false"`
	SentToTokens     int       `gorm:"not null"`
	TotalTokens      int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"index:idx_notification_device_context_created"`
}

// TableName explicitly sets the table name for GORM.
func (NotificationRecordModel) TableName() string {
	return "notification_records"
}
