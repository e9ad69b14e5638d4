package postgres

import (
	"context"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// statusLogRepository implements the repository.StatusLogRepository interface.
type statusLogRepository struct {
	db *gorm.DB
}

// NewStatusLogRepository is the constructor for statusLogRepository.
func NewStatusLogRepository(db *gorm.DB) repository.StatusLogRepository {
	return &statusLogRepository{
		db: db,
	}
}

// FindLatestStatus retrieves the most recent log entry for a (device, geofence) pair.
func (repo *statusLogRepository) FindLatestStatus(ctx context.Context, deviceID, geofenceID uuid.UUID) (*entity.GeofenceStatusLog, error) {
	var logM model.GeofenceStatusLogModel

	if err := repo.db.WithContext(ctx).
		Where("device_id = ? AND geofence_id = ?", deviceID, geofenceID).
		Order("created_at DESC").
		First(&logM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStatusLogNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest geofence status")
	}

	return toStatusLogDomain(&logM), nil
}

// BatchCreateStatusLogs persists all log entries of one pipeline run atomically.
func (repo *statusLogRepository) BatchCreateStatusLogs(ctx context.Context, logs []*entity.GeofenceStatusLog) error {
	if len(logs) == 0 {
		return nil
	}

	logModels := make([]*model.GeofenceStatusLogModel, 0, len(logs))
	for _, log := range logs {
		logModels = append(logModels, fromStatusLogDomain(log))
	}

	// Single INSERT keeps the batch atomic without an explicit transaction.
	if err := repo.db.WithContext(ctx).Create(&logModels).Error; err != nil {
		return errors.Wrap(err, "failed to batch create status logs")
	}

	for i, logM := range logModels {
		logs[i].ID = logM.ID
		logs[i].CreatedAt = logM.CreatedAt
	}

	return nil
}

// FindLogsByDevice lists log entries for a device, newest first.
func (repo *statusLogRepository) FindLogsByDevice(ctx context.Context, deviceID uuid.UUID, query repository.StatusLogQuery) ([]*entity.GeofenceStatusLog, error) {
	var logModels []*model.GeofenceStatusLogModel

	tx := repo.db.WithContext(ctx).
		Where("device_id = ?", deviceID)
	if query.Start != nil {
		tx = tx.Where("created_at >= ?", *query.Start)
	}
	if query.End != nil {
		tx = tx.Where("created_at <= ?", *query.End)
	}
	tx = tx.Order("created_at DESC")
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	if err := tx.Find(&logModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find status logs by device")
	}

	logs := make([]*entity.GeofenceStatusLog, 0, len(logModels))
	for _, logM := range logModels {
		logs = append(logs, toStatusLogDomain(logM))
	}

	return logs, nil
}

// --- Mapper Functions ---

// toStatusLogDomain converts a GORM GeofenceStatusLogModel to a domain entity.
func toStatusLogDomain(data *model.GeofenceStatusLogModel) *entity.GeofenceStatusLog {
	if data == nil {
		return nil
	}

	return &entity.GeofenceStatusLog{
		ID:               data.ID,
		DeviceID:         data.DeviceID,
		DeviceIdentifier: data.DeviceIdentifier,
		DeviceName:       data.DeviceName,
		GeofenceID:       data.GeofenceID,
		GeofenceName:     data.GeofenceName,
		OwnerID:          data.OwnerID,
		Action:           data.Action,
		Status:           data.Status,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		CreatedAt:        data.CreatedAt,
	}
}

// fromStatusLogDomain converts a domain entity to a GORM GeofenceStatusLogModel.
func fromStatusLogDomain(data *entity.GeofenceStatusLog) *model.GeofenceStatusLogModel {
	if data == nil {
		return nil
	}

	return &model.GeofenceStatusLogModel{
		ID:               data.ID,
		DeviceID:         data.DeviceID,
		DeviceIdentifier: data.DeviceIdentifier,
		DeviceName:       data.DeviceName,
		GeofenceID:       data.GeofenceID,
		GeofenceName:     data.GeofenceName,
		OwnerID:          data.OwnerID,
		Action:           data.Action,
		Status:           data.Status,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		CreatedAt:        data.CreatedAt,
	}
}
