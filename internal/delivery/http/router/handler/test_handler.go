package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	deliverycontext "geowatch/internal/delivery/context"
	"geowatch/internal/delivery/http/response"
	"geowatch/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TestHandler exposes manual trigger endpoints for exercising the
// pipelines without real tracker traffic. Triggers go through the same
// event queue as live reports, so what arrives at the worker is exactly
// what production would deliver. The router only mounts this handler when
// test routes are enabled in config; keep it off in production.
type TestHandler struct {
	publisher service.EventPublisher
	logger    *slog.Logger
}

// TestHandlerParams holds dependencies for the TestHandler
type TestHandlerParams struct {
	fx.In

	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewTestHandler creates a new TestHandler instance
func NewTestHandler(params TestHandlerParams) *TestHandler {
	return &TestHandler{
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

type manualRelayRequest struct {
	Device string `json:"device" validate:"required"`
	Action string `json:"action" validate:"required,oneof=on off"`
}

type manualLocationRequest struct {
	Device  string         `json:"device" validate:"required"`
	Payload map[string]any `json:"payload" validate:"required"`
}

// TriggerRelay publishes a hand-crafted relay-state event for a device.
func (h *TestHandler) TriggerRelay(c echo.Context) error {
	var req manualRelayRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", err.Error())
	}

	relay, err := json.Marshal(req.Action == "on")
	if err != nil {
		return response.InternalServerError(c, "TRIGGER_FAILED", "failed to encode relay state")
	}

	event := &service.RelayEvent{
		RequestID: deliverycontext.GetRequestID(c),
		DeviceKey: req.Device,
		Relay:     relay,
	}

	if err := h.publisher.PublishRelayEvent(c.Request().Context(), event); err != nil {
		h.logger.Error("failed to publish manual relay event",
			slog.String("device_key", req.Device),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "TRIGGER_FAILED", "failed to queue relay event")
	}

	h.logger.Info("manual relay event queued",
		slog.String("device_key", req.Device),
		slog.String("action", req.Action),
	)

	return response.Success(c, http.StatusAccepted, map[string]string{
		"device": req.Device,
		"action": req.Action,
	}, "Relay event queued")
}

// TriggerLocation publishes a hand-crafted location event for a device.
func (h *TestHandler) TriggerLocation(c echo.Context) error {
	var req manualLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_REQUEST", err.Error())
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return response.InternalServerError(c, "TRIGGER_FAILED", "failed to encode payload")
	}

	event := &service.LocationEvent{
		RequestID: deliverycontext.GetRequestID(c),
		DeviceKey: req.Device,
		Payload:   payload,
	}

	if err := h.publisher.PublishLocationEvent(c.Request().Context(), event); err != nil {
		h.logger.Error("failed to publish manual location event",
			slog.String("device_key", req.Device),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "TRIGGER_FAILED", "failed to queue location event")
	}

	h.logger.Info("manual location event queued",
		slog.String("device_key", req.Device),
	)

	return response.Success(c, http.StatusAccepted, map[string]string{
		"device": req.Device,
	}, "Location event queued")
}
