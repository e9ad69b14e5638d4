package postgres

import (
	"context"

	"geowatch/internal/domain/entity"
	"geowatch/internal/domain/repository"
	"geowatch/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tokenRepository implements the repository.TokenRepository interface.
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository is the constructor for tokenRepository.
func NewTokenRepository(db *gorm.DB) repository.TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

// FindTokensByOwner retrieves every push token registered for a user.
func (repo *tokenRepository) FindTokensByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.PushToken, error) {
	var tokenModels []*model.PushTokenModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&tokenModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find push tokens by owner")
	}

	tokens := make([]*entity.PushToken, 0, len(tokenModels))
	for _, tokenM := range tokenModels {
		tokens = append(tokens, toTokenDomain(tokenM))
	}

	return tokens, nil
}

// RemoveTokens deletes the given token strings for a user in one statement.
func (repo *tokenRepository) RemoveTokens(ctx context.Context, ownerID uuid.UUID, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ? AND token IN ?", ownerID, tokens).
		Delete(&model.PushTokenModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to remove push tokens")
	}

	return nil
}

// --- Mapper Functions ---

// toTokenDomain converts a GORM PushTokenModel to a domain PushToken entity.
func toTokenDomain(data *model.PushTokenModel) *entity.PushToken {
	if data == nil {
		return nil
	}

	return &entity.PushToken{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Token:     data.Token,
		CreatedAt: data.CreatedAt,
	}
}
