package impl

import (
	"context"
	"testing"
	"time"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/geo"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestGeofencePipeline() (usecase.GeofencePipelineUsecase, *mockDeviceRepository, *mockGeofenceRepository, *mockStatusLogRepository, *mockDispatcher) {
	deviceRepo := new(mockDeviceRepository)
	geofenceRepo := new(mockGeofenceRepository)
	statusLogRepo := new(mockStatusLogRepository)
	dispatcher := new(mockDispatcher)

	pipeline := NewGeofencePipeline(deviceRepo, geofenceRepo, statusLogRepo, dispatcher, newTestLogger())

	return pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher
}

func squareGeofence(deviceID, ownerID uuid.UUID, name string) *entity.Geofence {
	return &entity.Geofence{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		DeviceID: deviceID,
		Name:     name,
		Active:   true,
		Points: []geo.Vertex{
			geo.NewVertex(0, 0),
			geo.NewVertex(0, 10),
			geo.NewVertex(10, 10),
			geo.NewVertex(10, 0),
		},
	}
}

func TestGeofencePipeline_FirstObservationIsEnterTransition(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(nil, repository.ErrStatusLogNotFound)

	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(req *usecase.DispatchRequest) bool {
		return req.Kind == entity.NotificationKindGeofence &&
			req.Context == "Home" &&
			req.Action == entity.ActionEnter &&
			req.Body == "tracker-7 has entered Home"
	})).Return(&usecase.DispatchOutcome{SentToTokens: 1, TotalTokens: 1}, nil)

	statusLogRepo.On("BatchCreateStatusLogs", ctx, mock.MatchedBy(func(logs []*entity.GeofenceStatusLog) bool {
		return len(logs) == 1 &&
			logs[0].Action == entity.ActionEnter &&
			logs[0].Status == entity.StatusInside &&
			logs[0].DeviceIdentifier == "tracker-7" &&
			logs[0].GeofenceName == "Home"
	})).Return(nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  5.0,
		"longitude": 5.0,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.EvaluatedGeofences)
	assert.Equal(t, 0, result.SkippedGeofences)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, entity.ActionEnter, result.Changes[0].Action)
	assert.Equal(t, entity.StatusUnknown, result.Changes[0].PreviousStatus)
	assert.Equal(t, entity.StatusInside, result.Changes[0].CurrentStatus)
	statusLogRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestGeofencePipeline_NoTransitionWhenStatusUnchanged(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(&entity.GeofenceStatusLog{
			Status:    entity.StatusInside,
			CreatedAt: time.Now().Add(-time.Hour),
		}, nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  5.0,
		"longitude": 5.0,
	})

	require.NoError(t, err)
	assert.Empty(t, result.Changes)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	statusLogRepo.AssertNotCalled(t, "BatchCreateStatusLogs", mock.Anything, mock.Anything)
}

func TestGeofencePipeline_ExitTransition(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(&entity.GeofenceStatusLog{Status: entity.StatusInside}, nil)

	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(req *usecase.DispatchRequest) bool {
		return req.Action == entity.ActionExit && req.Body == "tracker-7 has exited Home"
	})).Return(&usecase.DispatchOutcome{SentToTokens: 1, TotalTokens: 1}, nil)

	statusLogRepo.On("BatchCreateStatusLogs", ctx, mock.MatchedBy(func(logs []*entity.GeofenceStatusLog) bool {
		return len(logs) == 1 && logs[0].Status == entity.StatusOutside
	})).Return(nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"lat": 20.0,
		"lng": 20.0,
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, entity.ActionExit, result.Changes[0].Action)
	assert.Equal(t, entity.StatusInside, result.Changes[0].PreviousStatus)
}

func TestGeofencePipeline_SkipsDegeneratePolygon(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	degenerate := &entity.Geofence{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		DeviceID: device.ID,
		Name:     "Broken",
		Active:   true,
		Points:   []geo.Vertex{geo.NewVertex(0, 0), geo.NewVertex(1, 1)},
	}

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{degenerate}, nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  0.5,
		"longitude": 0.5,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.EvaluatedGeofences)
	assert.Equal(t, 1, result.SkippedGeofences)
	statusLogRepo.AssertNotCalled(t, "FindLatestStatus", mock.Anything, mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestGeofencePipeline_DispatchFailureStillCommitsLogs(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(nil, repository.ErrStatusLogNotFound)
	dispatcher.On("Dispatch", ctx, mock.Anything).
		Return(nil, errors.New("push channel down"))
	statusLogRepo.On("BatchCreateStatusLogs", ctx, mock.Anything).Return(nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  5.0,
		"longitude": 5.0,
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	statusLogRepo.AssertCalled(t, "BatchCreateStatusLogs", ctx, mock.Anything)
}

func TestGeofencePipeline_StatusLookupFailureDegradesToUnknown(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(nil, errors.New("connection reset"))
	dispatcher.On("Dispatch", ctx, mock.Anything).
		Return(&usecase.DispatchOutcome{SentToTokens: 1, TotalTokens: 1}, nil)
	statusLogRepo.On("BatchCreateStatusLogs", ctx, mock.Anything).Return(nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  5.0,
		"longitude": 5.0,
	})

	// A flaky read degrades to unknown, which makes this observation a
	// transition, instead of dropping the whole location event.
	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, entity.StatusUnknown, result.Changes[0].PreviousStatus)
	statusLogRepo.AssertCalled(t, "BatchCreateStatusLogs", ctx, mock.Anything)
}

func TestGeofencePipeline_InvalidPayload(t *testing.T) {
	pipeline, deviceRepo, _, _, _ := createTestGeofencePipeline()

	_, err := pipeline.ProcessLocation(context.Background(), "tracker-7", map[string]any{
		"speed": 42,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrMissingCoordinates)
	deviceRepo.AssertNotCalled(t, "FindDeviceByName", mock.Anything, mock.Anything)
}

func TestGeofencePipeline_UnknownDevice(t *testing.T) {
	pipeline, deviceRepo, _, _, _ := createTestGeofencePipeline()

	ctx := context.Background()
	deviceRepo.On("FindDeviceByName", ctx, "ghost").
		Return(nil, repository.ErrDeviceNotFound)

	_, err := pipeline.ProcessLocation(ctx, "ghost", map[string]any{
		"latitude":  5.0,
		"longitude": 5.0,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDeviceNotFound)
}

func TestGeofencePipeline_StringCoordinatesAccepted(t *testing.T) {
	pipeline, deviceRepo, geofenceRepo, statusLogRepo, dispatcher := createTestGeofencePipeline()

	ctx := context.Background()
	ownerID := uuid.New()
	device := &entity.Device{ID: uuid.New(), Name: "tracker-7", OwnerID: ownerID}
	geofence := squareGeofence(device.ID, ownerID, "Home")

	deviceRepo.On("FindDeviceByName", ctx, "tracker-7").Return(device, nil)
	geofenceRepo.On("FindActiveGeofences", ctx, device.ID, ownerID).
		Return([]*entity.Geofence{geofence}, nil)
	statusLogRepo.On("FindLatestStatus", ctx, device.ID, geofence.ID).
		Return(nil, repository.ErrStatusLogNotFound)
	dispatcher.On("Dispatch", ctx, mock.Anything).
		Return(&usecase.DispatchOutcome{}, nil)
	statusLogRepo.On("BatchCreateStatusLogs", ctx, mock.Anything).Return(nil)

	result, err := pipeline.ProcessLocation(ctx, "tracker-7", map[string]any{
		"latitude":  "5.5",
		"longitude": "4.5",
	})

	require.NoError(t, err)
	assert.InDelta(t, 5.5, result.Location.Latitude, 1e-9)
	assert.InDelta(t, 4.5, result.Location.Longitude, 1e-9)
}
