// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
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

// deviceRepository implements the repository.DeviceRepository interface.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{
		db: db,
	}
}

// FindDeviceByName retrieves a device by its tracker-reported name.
func (repo *deviceRepository) FindDeviceByName(ctx context.Context, name string) (*entity.Device, error) {
	var deviceM model.DeviceModel

	if err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&deviceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to find device by name")
	}

	return toDeviceDomain(&deviceM), nil
}

// FindDeviceByID retrieves a device by its unique ID.
func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	var deviceM model.DeviceModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&deviceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to find device by ID")
	}

	return toDeviceDomain(&deviceM), nil
}

// FindVehicleByID retrieves a vehicle by its unique ID.
func (repo *deviceRepository) FindVehicleByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	var vehicleM model.VehicleModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vehicleM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVehicleNotFound
		}

		return nil, errors.Wrap(err, "failed to find vehicle by ID")
	}

	return toVehicleDomain(&vehicleM), nil
}

// --- Mapper Functions ---

// toDeviceDomain converts a GORM DeviceModel to a domain Device entity.
func toDeviceDomain(data *model.DeviceModel) *entity.Device {
	if data == nil {
		return nil
	}

	return &entity.Device{
		ID:        data.ID,
		Name:      data.Name,
		OwnerID:   data.OwnerID,
		VehicleID: data.VehicleID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// toVehicleDomain converts a GORM VehicleModel to a domain Vehicle entity.
func toVehicleDomain(data *model.VehicleModel) *entity.Vehicle {
	if data == nil {
		return nil
	}

	return &entity.Vehicle{
		ID:        data.ID,
		Name:      data.Name,
		OwnerID:   data.OwnerID,
		DeviceID:  data.DeviceID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
