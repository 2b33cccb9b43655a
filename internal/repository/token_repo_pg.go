package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onevsone/voting/internal/model"
)

type pgTokenRepository struct {
	db *gorm.DB
}

func NewPGTokenRepository(db *gorm.DB) TokenRepository {
	return &pgTokenRepository{db: db}
}

func (r *pgTokenRepository) Create(ctx context.Context, token *model.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *pgTokenRepository) GetByToken(ctx context.Context, token string) (*model.Token, error) {
	var t model.Token
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *pgTokenRepository) MarkVoted(ctx context.Context, tokenID, playerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Token{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{
			"has_voted": true,
			"voted_for": playerID,
		}).
		Error
}

func (r *pgTokenRepository) List(ctx context.Context) ([]model.Token, error) {
	var tokens []model.Token
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
