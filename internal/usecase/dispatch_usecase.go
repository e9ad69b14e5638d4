package usecase

import (
	"context"

	"github.com/google/uuid"
)

// DispatchRequest carries one fully rendered alert through the cooldown
// gate and out to the owner's registered push tokens.
type DispatchRequest struct {
	OwnerID          uuid.UUID
	DeviceID         uuid.UUID
	DeviceIdentifier string
	DeviceName       string
	Kind             string // entity.NotificationKindGeofence or entity.NotificationKindVehicleStatus
	Context          string // cooldown context key within the device
	Action           string
	Title            string
	Body             string
	Data             map[string]string
	Latitude         *float64
	Longitude        *float64
}

// DispatchOutcome reports what happened to one dispatch request.
type DispatchOutcome struct {
	Suppressed   bool // cooldown window still open, nothing sent
	SentToTokens int
	TotalTokens  int
	PrunedTokens int // tokens removed after the transport reported them invalid
}

// NotificationDispatcher defines the interface shared by both pipelines
// for delivering alerts.
type NotificationDispatcher interface {
	// Dispatch applies the cooldown gate, fans the alert out to every
	// registered token, prunes invalid tokens and writes one notification
	// record for the attempt.
	Dispatch(ctx context.Context, req *DispatchRequest) (*DispatchOutcome, error)
}
