package impl

import (
	"context"
	"log/slog"
	"time"

	"geowatch/config"
	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"

	"github.com/google/uuid"
)

// cooldownGate suppresses repeat alerts for the same (device, context)
// pair inside a per-kind window. It reads the notification records the
// dispatcher writes, so a suppressed alert leaves no trace and the window
// keeps counting from the last delivered one.
type cooldownGate struct {
	notificationRepo repository.NotificationRepository
	windows          map[string]time.Duration
	logger           *slog.Logger
}

func newCooldownGate(notificationRepo repository.NotificationRepository, cfg *config.NotificationConfig, logger *slog.Logger) *cooldownGate {
	windows := make(map[string]time.Duration, 2)
	if cfg != nil {
		windows[entity.NotificationKindGeofence] = cfg.GeofenceCooldown
		windows[entity.NotificationKindVehicleStatus] = cfg.VehicleStatusCooldown
	}

	return &cooldownGate{
		notificationRepo: notificationRepo,
		windows:          windows,
		logger:           logger,
	}
}

// Allow reports whether an alert for the (device, context) pair may be
// sent now. A lookup failure allows the alert: losing one duplicate is
// cheaper than losing a real alert.
func (g *cooldownGate) Allow(ctx context.Context, deviceID uuid.UUID, kind, contextKey string) bool {
	window := g.windows[kind]
	if window <= 0 {
		return true
	}

	since := time.Now().Add(-window)
	recent, err := g.notificationRepo.HasRecentRecord(ctx, deviceID, contextKey, since)
	if err != nil {
		g.logger.Warn("cooldown lookup failed, allowing alert",
			slog.String("device_id", deviceID.String()),
			slog.String("context", contextKey),
			slog.String("error", err.Error()),
		)

		return true
	}

	return !recent
}
