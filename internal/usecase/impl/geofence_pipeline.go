package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/geo"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const geofenceAlertTitle = "Geofence Alert"

type geofencePipeline struct {
	deviceRepo    repository.DeviceRepository
	geofenceRepo  repository.GeofenceRepository
	statusLogRepo repository.StatusLogRepository
	dispatcher    usecase.NotificationDispatcher
	logger        *slog.Logger
}

// NewGeofencePipeline creates the location-driven geofence pipeline.
func NewGeofencePipeline(
	deviceRepo repository.DeviceRepository,
	geofenceRepo repository.GeofenceRepository,
	statusLogRepo repository.StatusLogRepository,
	dispatcher usecase.NotificationDispatcher,
	logger *slog.Logger,
) usecase.GeofencePipelineUsecase {
	return &geofencePipeline{
		deviceRepo:    deviceRepo,
		geofenceRepo:  geofenceRepo,
		statusLogRepo: statusLogRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// ProcessLocation runs one location event through validation, geofence
// evaluation, transition detection, alert dispatch and the final batch
// commit of transition logs.
func (p *geofencePipeline) ProcessLocation(ctx context.Context, deviceKey string, payload map[string]any) (result *usecase.ProcessResult, err error) {
	// A malformed geofence or payload must never take the worker down.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Errorf("geofence pipeline panic: %v", r)
		}
	}()

	coords, err := geo.ExtractCoordinates(payload)
	if err != nil {
		return nil, errors.Wrap(err, "invalid location payload")
	}

	device, err := p.deviceRepo.FindDeviceByName(ctx, deviceKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve device %q", deviceKey)
	}

	geofences, err := p.geofenceRepo.FindActiveGeofences(ctx, device.ID, device.OwnerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active geofences")
	}

	result = &usecase.ProcessResult{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Location:   coords,
	}

	point := geo.Point{Lat: coords.Latitude, Lng: coords.Longitude}
	now := time.Now()
	var pendingLogs []*entity.GeofenceStatusLog

	for _, geofence := range geofences {
		if !geofence.HasValidPolygon() {
			result.SkippedGeofences++
			p.logger.Warn("skipping geofence with invalid polygon",
				slog.String("geofence_id", geofence.ID.String()),
				slog.String("geofence_name", geofence.Name),
				slog.Int("vertices", len(geofence.Points)),
			)

			continue
		}

		result.EvaluatedGeofences++
		inside := geo.PointInPolygon(point, geofence.Points)

		previous := p.previousStatus(ctx, device.ID, geofence.ID)

		// The first observation of a pair always counts as a transition:
		// an unknown previous status differs from any current one.
		if previous != nil && *previous == inside {
			continue
		}

		action := entity.ActionExit
		status := entity.StatusOutside
		if inside {
			action = entity.ActionEnter
			status = entity.StatusInside
		}

		result.Changes = append(result.Changes, usecase.StatusChange{
			GeofenceID:     geofence.ID,
			GeofenceName:   geofence.Name,
			Action:         action,
			PreviousStatus: statusLabel(previous),
			CurrentStatus:  status,
		})

		pendingLogs = append(pendingLogs, &entity.GeofenceStatusLog{
			ID:               uuid.New(),
			DeviceID:         device.ID,
			DeviceIdentifier: deviceKey,
			DeviceName:       device.Name,
			GeofenceID:       geofence.ID,
			GeofenceName:     geofence.Name,
			OwnerID:          device.OwnerID,
			Action:           action,
			Status:           status,
			Latitude:         coords.Latitude,
			Longitude:        coords.Longitude,
			CreatedAt:        now,
		})

		p.dispatchGeofenceAlert(ctx, device, deviceKey, geofence, action, coords, now)
	}

	if len(pendingLogs) > 0 {
		if err := p.statusLogRepo.BatchCreateStatusLogs(ctx, pendingLogs); err != nil {
			return nil, errors.Wrap(err, "failed to commit status logs")
		}
	}

	p.logger.Info("location event processed",
		slog.String("device_id", device.ID.String()),
		slog.String("device_key", deviceKey),
		slog.Int("evaluated", result.EvaluatedGeofences),
		slog.Int("skipped", result.SkippedGeofences),
		slog.Int("changes", len(result.Changes)),
	)

	return result, nil
}

// previousStatus resolves the last known containment state of a
// (device, geofence) pair. nil means unknown: either the pair has never
// been observed or the lookup failed. A failed lookup degrades to unknown
// instead of aborting the run, so one flaky read costs at worst a
// duplicate transition, not a lost location event.
func (p *geofencePipeline) previousStatus(ctx context.Context, deviceID, geofenceID uuid.UUID) *bool {
	latest, err := p.statusLogRepo.FindLatestStatus(ctx, deviceID, geofenceID)
	if err != nil {
		if !errors.Is(err, repository.ErrStatusLogNotFound) {
			p.logger.Warn("previous status lookup failed, treating as unknown",
				slog.String("device_id", deviceID.String()),
				slog.String("geofence_id", geofenceID.String()),
				slog.String("error", err.Error()),
			)
		}

		return nil
	}

	switch latest.Status {
	case entity.StatusInside:
		inside := true

		return &inside
	case entity.StatusOutside:
		inside := false

		return &inside
	default:
		return nil
	}
}

// dispatchGeofenceAlert sends one transition alert. Delivery failures are
// logged and swallowed so a broken push channel never loses log entries.
func (p *geofencePipeline) dispatchGeofenceAlert(
	ctx context.Context,
	device *entity.Device,
	deviceKey string,
	geofence *entity.Geofence,
	action string,
	coords geo.Coordinates,
	at time.Time,
) {
	actionText := "exited"
	if action == entity.ActionEnter {
		actionText = "entered"
	}
	body := fmt.Sprintf("%s has %s %s", device.Name, actionText, geofence.Name)

	lat := coords.Latitude
	lng := coords.Longitude
	outcome, err := p.dispatcher.Dispatch(ctx, &usecase.DispatchRequest{
		OwnerID:          device.OwnerID,
		DeviceID:         device.ID,
		DeviceIdentifier: deviceKey,
		DeviceName:       device.Name,
		Kind:             entity.NotificationKindGeofence,
		Context:          geofence.Name,
		Action:           action,
		Title:            geofenceAlertTitle,
		Body:             body,
		Data: map[string]string{
			"type":         entity.NotificationKindGeofence,
			"deviceId":     device.ID.String(),
			"deviceName":   device.Name,
			"geofenceName": geofence.Name,
			"action":       action,
			"latitude":     strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
			"longitude":    strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
			"timestamp":    at.UTC().Format(time.RFC3339),
		},
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != nil {
		p.logger.Error("failed to dispatch geofence alert",
			slog.String("device_id", device.ID.String()),
			slog.String("geofence_name", geofence.Name),
			slog.String("error", err.Error()),
		)

		return
	}

	if outcome.Suppressed {
		p.logger.Debug("geofence alert suppressed",
			slog.String("device_id", device.ID.String()),
			slog.String("geofence_name", geofence.Name),
		)
	}
}

// statusLabel renders a tri-state containment status for reporting.
func statusLabel(inside *bool) string {
	switch {
	case inside == nil:
		return entity.StatusUnknown
	case *inside:
		return entity.StatusInside
	default:
		return entity.StatusOutside
	}
}
