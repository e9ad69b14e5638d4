package notification

import (
	"testing"

	"geowatch/internal/domain/service"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
)

func TestBuildDataPayloadCarriesTitleAndBody(t *testing.T) {
	data := buildDataPayload(&service.PushMessage{
		Title: "Geofence Alert",
		Body:  "tracker-7 has entered Home",
		Data: map[string]string{
			"type":   "geofence",
			"action": "enter",
		},
	})

	assert.Equal(t, "Geofence Alert", data["title"])
	assert.Equal(t, "tracker-7 has entered Home", data["body"])
	assert.Equal(t, "geofence", data["type"])
	assert.Equal(t, "enter", data["action"])
}

func TestBuildDataPayloadOverridesCollidingKeys(t *testing.T) {
	data := buildDataPayload(&service.PushMessage{
		Title: "Vehicle Status",
		Body:  "✅ Beat has been successfully turned on.",
		Data: map[string]string{
			"title": "spoofed",
			"body":  "spoofed",
		},
	})

	assert.Equal(t, "Vehicle Status", data["title"])
	assert.Equal(t, "✅ Beat has been successfully turned on.", data["body"])
}

func TestWakeUpHintsUseContentAvailable(t *testing.T) {
	msg := &messaging.Message{
		Token: "token-1",
		Data:  buildDataPayload(&service.PushMessage{Title: "t", Body: "b"}),
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
				},
			},
		},
	}

	assert.True(t, msg.APNS.Payload.Aps.ContentAvailable)
	assert.Equal(t, "high", msg.Android.Priority)
}
