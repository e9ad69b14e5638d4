package impl

import (
	"context"
	"log/slog"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultLogQueryLimit = 50
	defaultStatsDays     = 7
)

type logQueryService struct {
	deviceRepo    repository.DeviceRepository
	geofenceRepo  repository.GeofenceRepository
	statusLogRepo repository.StatusLogRepository
	logger        *slog.Logger
}

// NewLogQueryService creates the read-side service over transition logs.
func NewLogQueryService(
	deviceRepo repository.DeviceRepository,
	geofenceRepo repository.GeofenceRepository,
	statusLogRepo repository.StatusLogRepository,
	logger *slog.Logger,
) usecase.LogQueryUsecase {
	return &logQueryService{
		deviceRepo:    deviceRepo,
		geofenceRepo:  geofenceRepo,
		statusLogRepo: statusLogRepo,
		logger:        logger,
	}
}

// QueryLogs lists transition logs for one of the user's devices.
func (s *logQueryService) QueryLogs(ctx context.Context, userID uuid.UUID, req usecase.LogQueryRequest) ([]*entity.GeofenceStatusLog, error) {
	if err := s.checkOwnership(ctx, userID, req.DeviceID); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLogQueryLimit
	}

	return s.statusLogRepo.FindLogsByDevice(ctx, req.DeviceID, repository.StatusLogQuery{
		Start: req.Start,
		End:   req.End,
		Limit: limit,
	})
}

// GetStats aggregates the transition history of one of the user's devices
// over the trailing number of days.
func (s *logQueryService) GetStats(ctx context.Context, userID uuid.UUID, deviceID uuid.UUID, days int) (*usecase.GeofenceStats, error) {
	if err := s.checkOwnership(ctx, userID, deviceID); err != nil {
		return nil, err
	}

	if days <= 0 {
		days = defaultStatsDays
	}

	start := time.Now().AddDate(0, 0, -days)
	logs, err := s.statusLogRepo.FindLogsByDevice(ctx, deviceID, repository.StatusLogQuery{
		Start: &start,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load status logs for stats")
	}

	stats := &usecase.GeofenceStats{
		DeviceID:      deviceID,
		Days:          days,
		TotalEvents:   len(logs),
		CurrentStatus: make(map[string]usecase.GeofenceCurrentStatus),
	}

	// Logs arrive newest first, so the first entry seen for a geofence is
	// its current status.
	for _, log := range logs {
		switch log.Action {
		case entity.ActionEnter:
			stats.EnterEvents++
		case entity.ActionExit:
			stats.ExitEvents++
		}

		key := log.GeofenceID.String()
		if _, seen := stats.CurrentStatus[key]; !seen {
			stats.CurrentStatus[key] = usecase.GeofenceCurrentStatus{
				GeofenceName: log.GeofenceName,
				Status:       log.Status,
				Since:        log.CreatedAt,
			}
		}
	}
	stats.GeofencesTracked = len(stats.CurrentStatus)

	// Active geofences that never produced a log in the window still show
	// up, with status unknown.
	geofences, err := s.geofenceRepo.FindActiveGeofences(ctx, deviceID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active geofences for stats")
	}
	for _, geofence := range geofences {
		key := geofence.ID.String()
		if _, seen := stats.CurrentStatus[key]; !seen {
			stats.CurrentStatus[key] = usecase.GeofenceCurrentStatus{
				GeofenceName: geofence.Name,
				Status:       entity.StatusUnknown,
			}
		}
	}

	return stats, nil
}

func (s *logQueryService) checkOwnership(ctx context.Context, userID, deviceID uuid.UUID) error {
	device, err := s.deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		return errors.Wrap(err, "failed to resolve device")
	}

	if device.OwnerID != userID {
		s.logger.Warn("rejected cross-owner log query",
			slog.String("user_id", userID.String()),
			slog.String("device_id", deviceID.String()),
		)

		return usecase.ErrNotDeviceOwner
	}

	return nil
}
