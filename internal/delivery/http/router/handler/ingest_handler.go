package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	deliverycontext "geowatch/internal/delivery/context"
	"geowatch/internal/delivery/http/response"
	"geowatch/internal/domain/service"
	"geowatch/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// IngestHandler accepts raw tracker reports and hands them to the event
// queue. Payloads are passed through opaque; the worker owns validation,
// so a tracker with a weird firmware build never gets rejected at the
// edge and silently dropped.
type IngestHandler struct {
	publisher service.EventPublisher
	logger    *slog.Logger
}

// IngestHandlerParams holds dependencies for the IngestHandler
type IngestHandlerParams struct {
	fx.In

	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewIngestHandler creates a new IngestHandler instance
func NewIngestHandler(params IngestHandlerParams) *IngestHandler {
	return &IngestHandler{
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// IngestLocation accepts one raw location payload for a device.
func (h *IngestHandler) IngestLocation(c echo.Context) error {
	deviceKey := c.Param("device")
	if deviceKey == "" {
		return response.BadRequest(c, "MISSING_DEVICE", "device identifier is required")
	}

	body, err := h.readJSONBody(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_PAYLOAD", "request body must be valid JSON")
	}

	event := &service.LocationEvent{
		RequestID: deliverycontext.GetRequestID(c),
		DeviceKey: deviceKey,
		Payload:   body,
	}

	if err := h.publisher.PublishLocationEvent(c.Request().Context(), event); err != nil {
		h.logger.Error("failed to publish location event",
			slog.String("device_key", deviceKey),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "PUBLISH_FAILED", "failed to queue location event")
	}

	return response.Success(c, http.StatusAccepted, map[string]string{
		"device": deviceKey,
	}, "Location event accepted")
}

// IngestRelay accepts one raw relay-state value for a device.
func (h *IngestHandler) IngestRelay(c echo.Context) error {
	deviceKey := c.Param("device")
	if deviceKey == "" {
		return response.BadRequest(c, "MISSING_DEVICE", "device identifier is required")
	}

	body, err := h.readJSONBody(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_PAYLOAD", "request body must be valid JSON")
	}

	event := &service.RelayEvent{
		RequestID: deliverycontext.GetRequestID(c),
		DeviceKey: deviceKey,
		Relay:     body,
	}

	if err := h.publisher.PublishRelayEvent(c.Request().Context(), event); err != nil {
		h.logger.Error("failed to publish relay event",
			slog.String("device_key", deviceKey),
			slog.Any("error", err),
		)

		return response.InternalServerError(c, "PUBLISH_FAILED", "failed to queue relay event")
	}

	return response.Success(c, http.StatusAccepted, map[string]string{
		"device": deviceKey,
	}, "Relay event accepted")
}

// readJSONBody reads the request body and checks it is syntactically
// valid JSON without imposing any schema.
func (h *IngestHandler) readJSONBody(c echo.Context) (json.RawMessage, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}

	return body, nil
}

var errInvalidJSON = errors.New("invalid JSON body")
