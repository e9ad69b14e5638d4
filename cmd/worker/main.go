package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"geowatch/config"
	"geowatch/internal/delivery"
	"geowatch/internal/delivery/worker"
	"geowatch/internal/delivery/worker/handler"
	"geowatch/internal/domain/service"
	logs "geowatch/internal/infra/log"
	"geowatch/internal/infra/notification"
	"geowatch/internal/infra/persistence/postgres"
	"geowatch/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		// Expose notification throttling config for the dispatcher
		func(cfg *config.Config) *config.NotificationConfig {
			if cfg == nil || cfg.Notification == nil {
				return &config.NotificationConfig{}
			}

			return cfg.Notification
		},
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewDeviceRepository,
			postgres.NewGeofenceRepository,
			postgres.NewStatusLogRepository,
			postgres.NewNotificationRepository,
			postgres.NewTokenRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newPushSender,
		),
	)
}

// newPushSender creates the Firebase push sender, falling back to a no-op
// sender when Firebase is not configured
func newPushSender(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.PushSender, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		logger.Info("Firebase not configured, using no-op push sender")

		return notification.NewNoopSender(logger), nil
	}

	sender, err := notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase service: %w", err)
	}

	return sender, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewNotificationDispatcher,
			impl.NewGeofencePipeline,
			impl.NewVehicleStatusService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
