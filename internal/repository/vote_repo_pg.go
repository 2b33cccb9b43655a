package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onevsone/voting/internal/model"
)

type pgVoteRepository struct {
	db *gorm.DB
}

func NewPGVoteRepository(db *gorm.DB) VoteRepository {
	return &pgVoteRepository{db: db}
}

func (r *pgVoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *pgVoteRepository) CountByPlayer(ctx context.Context, playerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("player_id = ?", playerID).
		Count(&count).
		Error
	return count, err
}
