package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onevsone/voting/internal/model"
)

type pgPlayerRepository struct {
	db *gorm.DB
}

func NewPGPlayerRepository(db *gorm.DB) PlayerRepository {
	return &pgPlayerRepository{db: db}
}

func (r *pgPlayerRepository) Create(ctx context.Context, player *model.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *pgPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	var player model.Player
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *pgPlayerRepository) List(ctx context.Context) ([]model.Player, error) {
	var players []model.Player
	if err := r.db.WithContext(ctx).Order("player_number ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *pgPlayerRepository) Update(ctx context.Context, player *model.Player) error {
	return r.db.WithContext(ctx).Save(player).Error
}

func (r *pgPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Player{}, "id = ?", id).Error
}

func (r *pgPlayerRepository) IncrementVotes(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Player{}).
		Where("id = ?", id).
		UpdateColumn("votes", gorm.Expr("votes + 1")).
		Error
}
