package repository

import (
	"context"

	"geowatch/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenRepository defines the persistence interface for push tokens.
// The dispatcher reads a user's token set and prunes invalid entries;
// token registration belongs to the mobile app's API.
type TokenRepository interface {
	// FindTokensByOwner retrieves every push token registered for a user.
	// An empty result is not an error.
	FindTokensByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.PushToken, error)

	// RemoveTokens deletes the given token strings for a user in one
	// update. Unknown tokens are ignored.
	RemoveTokens(ctx context.Context, ownerID uuid.UUID, tokens []string) error
}
