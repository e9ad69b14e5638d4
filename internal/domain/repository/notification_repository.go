package repository

import (
	"context"
	"time"

	"geowatch/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationRepository defines the persistence interface for
// notification records.
type NotificationRepository interface {
	// CreateRecord persists one notification record.
	CreateRecord(ctx context.Context, record *entity.NotificationRecord) error

	// HasRecentRecord reports whether a record exists for the given
	// device and cooldown context with CreatedAt at or after since.
	HasRecentRecord(ctx context.Context, deviceID uuid.UUID, contextKey string, since time.Time) (bool, error)
}
