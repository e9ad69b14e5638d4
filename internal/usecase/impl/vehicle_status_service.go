package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/usecase"

	"github.com/pkg/errors"
)

const vehicleStatusTitle = "Vehicle Status"

type vehicleStatusService struct {
	deviceRepo repository.DeviceRepository
	dispatcher usecase.NotificationDispatcher
	logger     *slog.Logger
}

// NewVehicleStatusService creates the relay-driven power-state pipeline.
func NewVehicleStatusService(
	deviceRepo repository.DeviceRepository,
	dispatcher usecase.NotificationDispatcher,
	logger *slog.Logger,
) usecase.VehicleStatusUsecase {
	return &vehicleStatusService{
		deviceRepo: deviceRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ProcessRelayState interprets one raw relay value and dispatches a
// power-state alert. Trackers with flaky firmware report strings and
// numbers here; anything but a JSON boolean is skipped without error.
func (s *vehicleStatusService) ProcessRelayState(ctx context.Context, deviceKey string, relay json.RawMessage) (*usecase.RelayResult, error) {
	// Unmarshal through a pointer: a JSON null leaves the pointer nil
	// instead of silently decoding to false.
	var relayValue *bool
	if err := json.Unmarshal(relay, &relayValue); err != nil || relayValue == nil {
		s.logger.Info("skipping non-boolean relay value",
			slog.String("device_key", deviceKey),
			slog.String("relay", string(relay)),
		)

		return &usecase.RelayResult{
			Skipped:    true,
			SkipReason: "relay value is not a boolean",
		}, nil
	}
	powerOn := *relayValue

	device, err := s.deviceRepo.FindDeviceByName(ctx, deviceKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve device %q", deviceKey)
	}

	displayName := s.resolveDisplayName(ctx, device)

	action := "off"
	if powerOn {
		action = "on"
	}
	body := fmt.Sprintf("✅ %s has been successfully turned %s.", displayName, action)

	outcome, err := s.dispatcher.Dispatch(ctx, &usecase.DispatchRequest{
		OwnerID:          device.OwnerID,
		DeviceID:         device.ID,
		DeviceIdentifier: deviceKey,
		DeviceName:       device.Name,
		Kind:             entity.NotificationKindVehicleStatus,
		Context:          entity.NotificationKindVehicleStatus,
		Action:           action,
		Title:            vehicleStatusTitle,
		Body:             body,
		Data: map[string]string{
			"type":       entity.NotificationKindVehicleStatus,
			"deviceId":   device.ID.String(),
			"deviceName": device.Name,
			"status":     action,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to dispatch power-state alert")
	}

	return &usecase.RelayResult{
		PowerOn:     powerOn,
		DisplayName: displayName,
		Suppressed:  outcome.Suppressed,
		Dispatched:  !outcome.Suppressed && outcome.SentToTokens > 0,
	}, nil
}

// resolveDisplayName prefers the linked vehicle's name over the device
// name. A broken vehicle link falls back to the device name instead of
// failing the pipeline.
func (s *vehicleStatusService) resolveDisplayName(ctx context.Context, device *entity.Device) string {
	if device.VehicleID == nil {
		return device.Name
	}

	vehicle, err := s.deviceRepo.FindVehicleByID(ctx, *device.VehicleID)
	if err != nil {
		s.logger.Warn("failed to resolve linked vehicle, using device name",
			slog.String("device_id", device.ID.String()),
			slog.String("vehicle_id", device.VehicleID.String()),
			slog.String("error", err.Error()),
		)

		return device.Name
	}

	return vehicle.Name
}
