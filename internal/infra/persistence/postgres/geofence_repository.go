package postgres

import (
	"context"
	"encoding/json"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/geo"
	"geowatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// geofenceRepository implements the repository.GeofenceRepository interface.
type geofenceRepository struct {
	db *gorm.DB
}

// NewGeofenceRepository is the constructor for geofenceRepository.
func NewGeofenceRepository(db *gorm.DB) repository.GeofenceRepository {
	return &geofenceRepository{
		db: db,
	}
}

// FindActiveGeofences retrieves every active geofence for a device and owner.
func (repo *geofenceRepository) FindActiveGeofences(ctx context.Context, deviceID, ownerID uuid.UUID) ([]*entity.Geofence, error) {
	var geofenceModels []*model.GeofenceModel

	if err := repo.db.WithContext(ctx).
		Where("device_id = ? AND owner_id = ? AND active = ?", deviceID, ownerID, true).
		Order("created_at ASC").
		Find(&geofenceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active geofences")
	}

	geofences := make([]*entity.Geofence, 0, len(geofenceModels))
	for _, geofenceM := range geofenceModels {
		geofence, err := toGeofenceDomain(geofenceM)
		if err != nil {
			return nil, err
		}
		geofences = append(geofences, geofence)
	}

	return geofences, nil
}

// --- Mapper Functions ---

// toGeofenceDomain converts a GORM GeofenceModel to a domain Geofence entity.
func toGeofenceDomain(data *model.GeofenceModel) (*entity.Geofence, error) {
	if data == nil {
		return nil, nil
	}

	var points []geo.Vertex
	if len(data.Points) > 0 {
		if err := json.Unmarshal(data.Points, &points); err != nil {
			return nil, errors.Wrapf(err, "failed to decode polygon points for geofence %s", data.ID)
		}
	}

	return &entity.Geofence{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		DeviceID:  data.DeviceID,
		Name:      data.Name,
		Active:    data.Active,
		Points:    points,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}, nil
}

// fromGeofenceDomain converts a domain Geofence entity to a GORM GeofenceModel.
func fromGeofenceDomain(data *entity.Geofence) (*model.GeofenceModel, error) {
	if data == nil {
		return nil, nil
	}

	points, err := json.Marshal(data.Points)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode polygon points")
	}

	return &model.GeofenceModel{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		DeviceID:  data.DeviceID,
		Name:      data.Name,
		Active:    data.Active,
		Points:    datatypes.JSON(points),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}, nil
}
