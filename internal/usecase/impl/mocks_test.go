package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/domain/service"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type mockDeviceRepository struct {
	mock.Mock
}

func (m *mockDeviceRepository) FindDeviceByName(ctx context.Context, name string) (*entity.Device, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Device), args.Error(1)
}

func (m *mockDeviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Device), args.Error(1)
}

func (m *mockDeviceRepository) FindVehicleByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

type mockGeofenceRepository struct {
	mock.Mock
}

func (m *mockGeofenceRepository) FindActiveGeofences(ctx context.Context, deviceID, ownerID uuid.UUID) ([]*entity.Geofence, error) {
	args := m.Called(ctx, deviceID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Geofence), args.Error(1)
}

type mockStatusLogRepository struct {
	mock.Mock
}

func (m *mockStatusLogRepository) FindLatestStatus(ctx context.Context, deviceID, geofenceID uuid.UUID) (*entity.GeofenceStatusLog, error) {
	args := m.Called(ctx, deviceID, geofenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.GeofenceStatusLog), args.Error(1)
}

func (m *mockStatusLogRepository) BatchCreateStatusLogs(ctx context.Context, logs []*entity.GeofenceStatusLog) error {
	args := m.Called(ctx, logs)

	return args.Error(0)
}

func (m *mockStatusLogRepository) FindLogsByDevice(ctx context.Context, deviceID uuid.UUID, query repository.StatusLogQuery) ([]*entity.GeofenceStatusLog, error) {
	args := m.Called(ctx, deviceID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.GeofenceStatusLog), args.Error(1)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) CreateRecord(ctx context.Context, record *entity.NotificationRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *mockNotificationRepository) HasRecentRecord(ctx context.Context, deviceID uuid.UUID, contextKey string, since time.Time) (bool, error) {
	args := m.Called(ctx, deviceID, contextKey, since)

	return args.Bool(0), args.Error(1)
}

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) FindTokensByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.PushToken, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.PushToken), args.Error(1)
}

func (m *mockTokenRepository) RemoveTokens(ctx context.Context, ownerID uuid.UUID, tokens []string) error {
	args := m.Called(ctx, ownerID, tokens)

	return args.Error(0)
}

type mockPushSender struct {
	mock.Mock
}

func (m *mockPushSender) SendToTokens(ctx context.Context, tokens []string, msg *service.PushMessage) ([]service.SendResult, error) {
	args := m.Called(ctx, tokens, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]service.SendResult), args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, req *usecase.DispatchRequest) (*usecase.DispatchOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.DispatchOutcome), args.Error(1)
}
