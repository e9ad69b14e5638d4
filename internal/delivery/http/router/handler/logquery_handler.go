package handler

import (
	"log/slog"
	"net/http"
	"time"

	"geowatch/internal/delivery/http/response"
	"geowatch/internal/domain/repository"
	"geowatch/internal/errors"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LogQueryHandler serves the read side of the transition history. Every
// route requires an authenticated user and only exposes that user's own
// devices.
type LogQueryHandler struct {
	logQuerySvc usecase.LogQueryUsecase
	logger      *slog.Logger
}

// LogQueryHandlerParams holds dependencies for the LogQueryHandler
type LogQueryHandlerParams struct {
	fx.In

	LogQuerySvc usecase.LogQueryUsecase
	Logger      *slog.Logger
}

// NewLogQueryHandler creates a new LogQueryHandler instance
func NewLogQueryHandler(params LogQueryHandlerParams) *LogQueryHandler {
	return &LogQueryHandler{
		logQuerySvc: params.LogQuerySvc,
		logger:      params.Logger,
	}
}

// logQueryParams are the query-string filters for listing logs.
type logQueryParams struct {
	Start string `query:"start" validate:"omitempty"`
	End   string `query:"end" validate:"omitempty"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=500"`
}

// statsParams are the query-string options for the stats aggregate.
type statsParams struct {
	Days int `query:"days" validate:"omitempty,gte=1,lte=90"`
}

// ListLogs returns a device's transition logs, newest first.
func (h *LogQueryHandler) ListLogs(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "user identity missing from request")
	}

	deviceID, err := uuid.Parse(c.Param("deviceId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_DEVICE_ID", "device id must be a UUID")
	}

	var params logQueryParams
	if err := c.Bind(&params); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", "invalid query parameters")
	}
	if err := c.Validate(&params); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", err.Error())
	}

	req := usecase.LogQueryRequest{
		DeviceID: deviceID,
		Limit:    params.Limit,
	}
	if req.Start, err = parseTimeParam(params.Start); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", "start must be RFC 3339")
	}
	if req.End, err = parseTimeParam(params.End); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", "end must be RFC 3339")
	}

	logs, err := h.logQuerySvc.QueryLogs(c.Request().Context(), userID, req)
	if err != nil {
		return h.mapQueryError(c, deviceID, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"count":     len(logs),
		"logs":      logs,
	}, "")
}

// GetStats returns the aggregated transition history of a device over a
// trailing window of days.
func (h *LogQueryHandler) GetStats(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "user identity missing from request")
	}

	deviceID, err := uuid.Parse(c.Param("deviceId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_DEVICE_ID", "device id must be a UUID")
	}

	var params statsParams
	if err := c.Bind(&params); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", "invalid query parameters")
	}
	if err := c.Validate(&params); err != nil {
		return response.BadRequest(c, "INVALID_QUERY", err.Error())
	}

	stats, err := h.logQuerySvc.GetStats(c.Request().Context(), userID, deviceID, params.Days)
	if err != nil {
		return h.mapQueryError(c, deviceID, err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// mapQueryError translates usecase errors into API responses.
func (h *LogQueryHandler) mapQueryError(c echo.Context, deviceID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotDeviceOwner):
		return response.Forbidden(c, "NOT_DEVICE_OWNER", "device does not belong to you")
	case errors.Is(err, repository.ErrDeviceNotFound):
		return response.NotFound(c, "DEVICE_NOT_FOUND", "device not found")
	default:
		h.logger.Error("log query failed",
			slog.String("device_id", deviceID.String()),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "QUERY_FAILED", "failed to query status logs")
	}
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("userID").(uuid.UUID)

	return userID, ok
}

func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
