package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"geowatch/config"
	deliverycontext "geowatch/internal/delivery/context"
	"geowatch/internal/domain/constants"
	"geowatch/internal/domain/service"
	"geowatch/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// PushHandler handles Pub/Sub push messages carrying tracker events.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	geofenceSvc    usecase.GeofencePipelineUsecase
	vehicleSvc     usecase.VehicleStatusUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	GeofenceSvc usecase.GeofencePipelineUsecase
	VehicleSvc  usecase.VehicleStatusUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		geofenceSvc:    params.GeofenceSvc,
		vehicleSvc:     params.VehicleSvc,
	}
}

// HandleLocationPush handles incoming location events. Every accepted
// message is acked regardless of processing outcome: location readings
// keep coming, so replaying a failed one buys nothing and risks alert
// storms after an outage.
func (h *PushHandler) HandleLocationPush(c echo.Context) error {
	ctx, reqLogger, data, pushMsg, ok := h.acceptPush(c)
	if !ok {
		return nil
	}

	var event service.LocationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		reqLogger.Error("[Worker] Failed to parse location event", slog.Any("error", err))

		return c.NoContent(http.StatusOK)
	}

	ctx, reqLogger = h.scopeRequest(ctx, reqLogger, pushMsg, event.RequestID)

	var payload map[string]any
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			reqLogger.Error("[Worker] Location payload is not an object",
				slog.String("device_key", event.DeviceKey),
				slog.Any("error", err),
			)

			return c.NoContent(http.StatusOK)
		}
	}

	result, err := h.geofenceSvc.ProcessLocation(ctx, event.DeviceKey, payload)
	if err != nil {
		reqLogger.Error("[Worker] Failed to process location event",
			slog.String("device_key", event.DeviceKey),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Location event processed",
		slog.String("device_key", event.DeviceKey),
		slog.Int("evaluated", result.EvaluatedGeofences),
		slog.Int("changes", len(result.Changes)),
	)

	return c.NoContent(http.StatusOK)
}

// HandleRelayPush handles incoming relay-state events, acked the same
// way as location events.
func (h *PushHandler) HandleRelayPush(c echo.Context) error {
	ctx, reqLogger, data, pushMsg, ok := h.acceptPush(c)
	if !ok {
		return nil
	}

	var event service.RelayEvent
	if err := json.Unmarshal(data, &event); err != nil {
		reqLogger.Error("[Worker] Failed to parse relay event", slog.Any("error", err))

		return c.NoContent(http.StatusOK)
	}

	ctx, reqLogger = h.scopeRequest(ctx, reqLogger, pushMsg, event.RequestID)

	result, err := h.vehicleSvc.ProcessRelayState(ctx, event.DeviceKey, event.Relay)
	if err != nil {
		reqLogger.Error("[Worker] Failed to process relay event",
			slog.String("device_key", event.DeviceKey),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusOK)
	}

	if result.Skipped {
		reqLogger.Info("[Worker] Relay event skipped",
			slog.String("device_key", event.DeviceKey),
			slog.String("reason", result.SkipReason),
		)
	} else {
		reqLogger.Info("[Worker] Relay event processed",
			slog.String("device_key", event.DeviceKey),
			slog.Bool("power_on", result.PowerOn),
			slog.Bool("dispatched", result.Dispatched),
		)
	}

	return c.NoContent(http.StatusOK)
}

// acceptPush authenticates and unwraps one push request. On failure it
// writes the response itself and reports ok=false.
func (h *PushHandler) acceptPush(c echo.Context) (context.Context, *slog.Logger, []byte, *PubSubMessage, bool) {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))
			_ = c.NoContent(http.StatusUnauthorized)

			return ctx, h.logger, nil, nil, false
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))
		_ = c.NoContent(http.StatusBadRequest)

		return ctx, h.logger, nil, nil, false
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))
		_ = c.NoContent(http.StatusBadRequest)

		return ctx, h.logger, nil, nil, false
	}

	return ctx, h.logger, data, &pushMsg, true
}

// scopeRequest attaches a request_id and request-scoped logger to the
// context. Priority: message attributes > event field > existing context.
func (h *PushHandler) scopeRequest(ctx context.Context, logger *slog.Logger, pushMsg *PubSubMessage, eventRequestID string) (context.Context, *slog.Logger) {
	requestID := ""
	if id, ok := pushMsg.Message.Attributes["request_id"]; ok && id != "" {
		requestID = id
	} else if eventRequestID != "" {
		requestID = eventRequestID
	} else if id := deliverycontext.GetRequestIDFromContext(ctx); id != "" {
		requestID = id
	} else {
		requestID = uuid.New().String()
	}

	reqLogger := logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	return ctx, reqLogger
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	// Get the Authorization header
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	// Extract Bearer token
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// Construct the expected audience (the push endpoint URL)
	// The audience should be the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	// Validate the token using Google's ID token validator
	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// Verify the token is from Google Pub/Sub
	// The issuer should be accounts.google.com
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	// Verify email is verified (if email claim exists)
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
