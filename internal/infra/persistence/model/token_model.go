package model

import (
	"time"

	"github.com/google/uuid"
)

// PushTokenModel is the GORM-specific struct for the 'push_tokens' table.
// One row per registered device token of an owner account.
type PushTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(512);not null;uniqueIndex"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PushTokenModel) TableName() string {
	return "push_tokens"
}
