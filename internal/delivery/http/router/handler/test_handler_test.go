package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"geowatch/internal/delivery/http/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTriggerTestHandler(publisher *capturingPublisher) *TestHandler {
	return &TestHandler{
		publisher: publisher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func doTrigger(handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = handler(c)

	return rec
}

func TestTestHandler_TriggerRelay(t *testing.T) {
	publisher := &capturingPublisher{}
	handler := newTriggerTestHandler(publisher)

	rec := doTrigger(handler.TriggerRelay, `{"device":"tracker-01","action":"on"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, publisher.relayEvents, 1)
	event := publisher.relayEvents[0]
	assert.Equal(t, "tracker-01", event.DeviceKey)
	assert.JSONEq(t, "true", string(event.Relay))
}

func TestTestHandler_TriggerRelay_OffMapsToFalse(t *testing.T) {
	publisher := &capturingPublisher{}
	handler := newTriggerTestHandler(publisher)

	rec := doTrigger(handler.TriggerRelay, `{"device":"tracker-01","action":"off"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, publisher.relayEvents, 1)
	assert.JSONEq(t, "false", string(publisher.relayEvents[0].Relay))
}

func TestTestHandler_TriggerRelay_RejectsUnknownAction(t *testing.T) {
	publisher := &capturingPublisher{}
	handler := newTriggerTestHandler(publisher)

	rec := doTrigger(handler.TriggerRelay, `{"device":"tracker-01","action":"toggle"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, publisher.relayEvents)
}

func TestTestHandler_TriggerLocation(t *testing.T) {
	publisher := &capturingPublisher{}
	handler := newTriggerTestHandler(publisher)

	rec := doTrigger(handler.TriggerLocation, `{"device":"tracker-01","payload":{"lat":25.03,"lng":121.56}}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, publisher.locationEvents, 1)
	event := publisher.locationEvents[0]
	assert.Equal(t, "tracker-01", event.DeviceKey)
	assert.JSONEq(t, `{"lat":25.03,"lng":121.56}`, string(event.Payload))
}
