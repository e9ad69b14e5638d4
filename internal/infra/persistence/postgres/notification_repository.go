package postgres

import (
	"context"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// CreateRecord persists one notification record.
func (repo *notificationRepository) CreateRecord(ctx context.Context, record *entity.NotificationRecord) error {
	recordM := fromNotificationDomain(record)

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		return errors.Wrap(err, "failed to create notification record")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

// HasRecentRecord reports whether a record exists for the device and
// cooldown context with CreatedAt at or after since.
func (repo *notificationRepository) HasRecentRecord(ctx context.Context, deviceID uuid.UUID, contextKey string, since time.Time) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.NotificationRecordModel{}).
		Where("device_id = ? AND context = ? AND created_at >= ?", deviceID, contextKey, since).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check recent notification record")
	}

	return count > 0, nil
}

// --- Mapper Functions ---

// toNotificationDomain converts a GORM NotificationRecordModel to a domain entity.
func toNotificationDomain(data *model.NotificationRecordModel) *entity.NotificationRecord {
	if data == nil {
		return nil
	}

	return &entity.NotificationRecord{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		DeviceID:         data.DeviceID,
		DeviceIdentifier: data.DeviceIdentifier,
		DeviceName:       data.DeviceName,
		Kind:             data.Kind,
		Context:          data.Context,
		Action:           data.Action,
		Message:          data.Message,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		Read:             data.Read,
		SentToTokens:     data.SentToTokens,
		TotalTokens:      data.TotalTokens,
		CreatedAt:        data.CreatedAt,
	}
}

// fromNotificationDomain converts a domain entity to a GORM NotificationRecordModel.
func fromNotificationDomain(data *entity.NotificationRecord) *model.NotificationRecordModel {
	if data == nil {
		return nil
	}

	return &model.NotificationRecordModel{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		DeviceID:         data.DeviceID,
		DeviceIdentifier: data.DeviceIdentifier,
		DeviceName:       data.DeviceName,
		Kind:             data.Kind,
		Context:          data.Context,
		Action:           data.Action,
		Message:          data.Message,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		Read:             data.Read,
		SentToTokens:     data.SentToTokens,
		TotalTokens:      data.TotalTokens,
		CreatedAt:        data.CreatedAt,
	}
}
