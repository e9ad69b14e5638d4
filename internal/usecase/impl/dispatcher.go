package impl

import (
	"context"
	"log/slog"
	"time"

	"geowatch/config"
	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/domain/service"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type notificationDispatcher struct {
	tokenRepo        repository.TokenRepository
	notificationRepo repository.NotificationRepository
	pushSender       service.PushSender
	gate             *cooldownGate
	logger           *slog.Logger
}

// NewNotificationDispatcher creates the dispatcher shared by both pipelines.
func NewNotificationDispatcher(
	tokenRepo repository.TokenRepository,
	notificationRepo repository.NotificationRepository,
	pushSender service.PushSender,
	cfg *config.NotificationConfig,
	logger *slog.Logger,
) usecase.NotificationDispatcher {
	return &notificationDispatcher{
		tokenRepo:        tokenRepo,
		notificationRepo: notificationRepo,
		pushSender:       pushSender,
		gate:             newCooldownGate(notificationRepo, cfg, logger),
		logger:           logger,
	}
}

// Dispatch applies the cooldown gate, fans the alert out to the owner's
// tokens, prunes tokens the transport reported invalid and writes one
// notification record for the attempt.
func (d *notificationDispatcher) Dispatch(ctx context.Context, req *usecase.DispatchRequest) (*usecase.DispatchOutcome, error) {
	if !d.gate.Allow(ctx, req.DeviceID, req.Kind, req.Context) {
		d.logger.Info("alert suppressed by cooldown",
			slog.String("device_id", req.DeviceID.String()),
			slog.String("kind", req.Kind),
			slog.String("context", req.Context),
		)

		return &usecase.DispatchOutcome{Suppressed: true}, nil
	}

	tokens, err := d.tokenRepo.FindTokensByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve push tokens")
	}
	if len(tokens) == 0 {
		d.logger.Info("no push tokens registered, skipping alert",
			slog.String("owner_id", req.OwnerID.String()),
			slog.String("kind", req.Kind),
		)

		return &usecase.DispatchOutcome{}, nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, token := range tokens {
		tokenStrings = append(tokenStrings, token.Token)
	}

	results, err := d.pushSender.SendToTokens(ctx, tokenStrings, &service.PushMessage{
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to send push messages")
	}

	sent := 0
	var invalidTokens []string
	for _, result := range results {
		switch {
		case result.Err == nil:
			sent++
		case result.Invalid:
			invalidTokens = append(invalidTokens, result.Token)
		default:
			d.logger.Warn("push delivery failed",
				slog.String("owner_id", req.OwnerID.String()),
				slog.String("error", result.Err.Error()),
			)
		}
	}

	pruned := 0
	if len(invalidTokens) > 0 {
		if err := d.tokenRepo.RemoveTokens(ctx, req.OwnerID, invalidTokens); err != nil {
			d.logger.Warn("failed to prune invalid push tokens",
				slog.String("owner_id", req.OwnerID.String()),
				slog.Int("token_count", len(invalidTokens)),
				slog.String("error", err.Error()),
			)
		} else {
			pruned = len(invalidTokens)
		}
	}

	record := &entity.NotificationRecord{
		ID:               uuid.New(),
		OwnerID:          req.OwnerID,
		DeviceID:         req.DeviceID,
		DeviceIdentifier: req.DeviceIdentifier,
		DeviceName:       req.DeviceName,
		Kind:             req.Kind,
		Context:          req.Context,
		Action:           req.Action,
		Message:          req.Body,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Read:             false,
		SentToTokens:     sent,
		TotalTokens:      len(tokenStrings),
		CreatedAt:        time.Now(),
	}
	if err := d.notificationRepo.CreateRecord(ctx, record); err != nil {
		// The pushes are already out; losing the record only weakens the
		// cooldown for the next event.
		d.logger.Warn("failed to persist notification record",
			slog.String("device_id", req.DeviceID.String()),
			slog.String("context", req.Context),
			slog.String("error", err.Error()),
		)
	}

	d.logger.Info("alert dispatched",
		slog.String("device_id", req.DeviceID.String()),
		slog.String("kind", req.Kind),
		slog.String("context", req.Context),
		slog.Int("sent", sent),
		slog.Int("total", len(tokenStrings)),
		slog.Int("pruned", pruned),
	)

	return &usecase.DispatchOutcome{
		SentToTokens: sent,
		TotalTokens:  len(tokenStrings),
		PrunedTokens: pruned,
	}, nil
}
