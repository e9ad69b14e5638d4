package entity

import (
	"time"

	"github.com/google/uuid"
)

// PushToken is one FCM registration token belonging to a user's app
// installation. Registration is owned by the mobile app; the dispatcher
// only reads tokens and deletes the ones FCM reports as invalid.
type PushToken struct {
	ID        uuid.UUID `json:"id"`         // The unique identifier for the token row.
	OwnerID   uuid.UUID `json:"owner_id"`   // The user this token delivers to.
	Token     string    `json:"token"`      // The opaque FCM registration token.
	CreatedAt time.Time `json:"created_at"` // Timestamp of registration.
}
