package impl

import (
	"context"
	"testing"
	"time"

	"geowatch/config"
	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/service"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestDispatcher() (usecase.NotificationDispatcher, *mockTokenRepository, *mockNotificationRepository, *mockPushSender) {
	tokenRepo := new(mockTokenRepository)
	notificationRepo := new(mockNotificationRepository)
	pushSender := new(mockPushSender)

	dispatcher := NewNotificationDispatcher(tokenRepo, notificationRepo, pushSender, &config.NotificationConfig{
		GeofenceCooldown:      2 * time.Minute,
		VehicleStatusCooldown: time.Minute,
	}, newTestLogger())

	return dispatcher, tokenRepo, notificationRepo, pushSender
}

func newDispatchRequest(ownerID, deviceID uuid.UUID) *usecase.DispatchRequest {
	return &usecase.DispatchRequest{
		OwnerID:          ownerID,
		DeviceID:         deviceID,
		DeviceIdentifier: "tracker-7",
		DeviceName:       "tracker-7",
		Kind:             entity.NotificationKindGeofence,
		Context:          "Home",
		Action:           entity.ActionEnter,
		Title:            "Geofence Alert",
		Body:             "tracker-7 has entered Home",
		Data:             map[string]string{"type": entity.NotificationKindGeofence},
	}
}

func TestDispatcher_FanOutPrunesInvalidTokens(t *testing.T) {
	dispatcher, tokenRepo, notificationRepo, pushSender := createTestDispatcher()

	ctx := context.Background()
	ownerID := uuid.New()
	deviceID := uuid.New()

	notificationRepo.On("HasRecentRecord", ctx, deviceID, "Home", mock.Anything).
		Return(false, nil)

	tokenRepo.On("FindTokensByOwner", ctx, ownerID).Return([]*entity.PushToken{
		{ID: uuid.New(), OwnerID: ownerID, Token: "tok-1"},
		{ID: uuid.New(), OwnerID: ownerID, Token: "tok-2"},
		{ID: uuid.New(), OwnerID: ownerID, Token: "tok-3"},
	}, nil)

	pushSender.On("SendToTokens", ctx, []string{"tok-1", "tok-2", "tok-3"}, mock.Anything).
		Return([]service.SendResult{
			{Token: "tok-1", MessageID: "m1"},
			{Token: "tok-2", Err: errors.New("registration token not registered"), Invalid: true},
			{Token: "tok-3", MessageID: "m3"},
		}, nil)

	tokenRepo.On("RemoveTokens", ctx, ownerID, []string{"tok-2"}).Return(nil)

	notificationRepo.On("CreateRecord", ctx, mock.MatchedBy(func(record *entity.NotificationRecord) bool {
		return record.SentToTokens == 2 &&
			record.TotalTokens == 3 &&
			!record.Read &&
			record.Kind == entity.NotificationKindGeofence &&
			record.Context == "Home" &&
			record.Message == "tracker-7 has entered Home"
	})).Return(nil)

	outcome, err := dispatcher.Dispatch(ctx, newDispatchRequest(ownerID, deviceID))

	require.NoError(t, err)
	assert.False(t, outcome.Suppressed)
	assert.Equal(t, 2, outcome.SentToTokens)
	assert.Equal(t, 3, outcome.TotalTokens)
	assert.Equal(t, 1, outcome.PrunedTokens)
	tokenRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
	pushSender.AssertExpectations(t)
}

func TestDispatcher_SuppressedByCooldown(t *testing.T) {
	dispatcher, tokenRepo, notificationRepo, pushSender := createTestDispatcher()

	ctx := context.Background()
	ownerID := uuid.New()
	deviceID := uuid.New()

	notificationRepo.On("HasRecentRecord", ctx, deviceID, "Home", mock.Anything).
		Return(true, nil)

	outcome, err := dispatcher.Dispatch(ctx, newDispatchRequest(ownerID, deviceID))

	require.NoError(t, err)
	assert.True(t, outcome.Suppressed)
	tokenRepo.AssertNotCalled(t, "FindTokensByOwner", mock.Anything, mock.Anything)
	pushSender.AssertNotCalled(t, "SendToTokens", mock.Anything, mock.Anything, mock.Anything)
	// A suppressed alert leaves no record.
	notificationRepo.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestDispatcher_NoTokensRegistered(t *testing.T) {
	dispatcher, tokenRepo, notificationRepo, pushSender := createTestDispatcher()

	ctx := context.Background()
	ownerID := uuid.New()
	deviceID := uuid.New()

	notificationRepo.On("HasRecentRecord", ctx, deviceID, "Home", mock.Anything).
		Return(false, nil)
	tokenRepo.On("FindTokensByOwner", ctx, ownerID).Return([]*entity.PushToken{}, nil)

	outcome, err := dispatcher.Dispatch(ctx, newDispatchRequest(ownerID, deviceID))

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.TotalTokens)
	pushSender.AssertNotCalled(t, "SendToTokens", mock.Anything, mock.Anything, mock.Anything)
	notificationRepo.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestDispatcher_TransportErrorPropagates(t *testing.T) {
	dispatcher, tokenRepo, notificationRepo, pushSender := createTestDispatcher()

	ctx := context.Background()
	ownerID := uuid.New()
	deviceID := uuid.New()

	notificationRepo.On("HasRecentRecord", ctx, deviceID, "Home", mock.Anything).
		Return(false, nil)
	tokenRepo.On("FindTokensByOwner", ctx, ownerID).Return([]*entity.PushToken{
		{ID: uuid.New(), OwnerID: ownerID, Token: "tok-1"},
	}, nil)
	pushSender.On("SendToTokens", ctx, []string{"tok-1"}, mock.Anything).
		Return(nil, errors.New("firebase unavailable"))

	outcome, err := dispatcher.Dispatch(ctx, newDispatchRequest(ownerID, deviceID))

	require.Error(t, err)
	assert.Nil(t, outcome)
	notificationRepo.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestDispatcher_RecordFailureDoesNotFailDispatch(t *testing.T) {
	dispatcher, tokenRepo, notificationRepo, pushSender := createTestDispatcher()

	ctx := context.Background()
	ownerID := uuid.New()
	deviceID := uuid.New()

	notificationRepo.On("HasRecentRecord", ctx, deviceID, "Home", mock.Anything).
		Return(false, nil)
	tokenRepo.On("FindTokensByOwner", ctx, ownerID).Return([]*entity.PushToken{
		{ID: uuid.New(), OwnerID: ownerID, Token: "tok-1"},
	}, nil)
	pushSender.On("SendToTokens", ctx, []string{"tok-1"}, mock.Anything).
		Return([]service.SendResult{{Token: "tok-1", MessageID: "m1"}}, nil)
	notificationRepo.On("CreateRecord", ctx, mock.Anything).
		Return(errors.New("insert failed"))

	outcome, err := dispatcher.Dispatch(ctx, newDispatchRequest(ownerID, deviceID))

	require.NoError(t, err)
	assert.Equal(t, 1, outcome.SentToTokens)
}
