package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onevsone/voting/internal/model"
	"onevsone/voting/internal/repository"
)

type PlayerService interface {
	ListPlayers(ctx context.Context) ([]model.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error)
	CreatePlayer(ctx context.Context, name string, playerNumber int, imageURL *string) (*model.Player, error)
	UpdatePlayer(ctx context.Context, id uuid.UUID, name string, playerNumber int, imageURL *string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error
}

type playerService struct {
	playerRepo repository.PlayerRepository
}

func NewPlayerService(playerRepo repository.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.playerRepo.List(ctx)
}

func (s *playerService) GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, name string, playerNumber int, imageURL *string) (*model.Player, error) {
	player := &model.Player{
		Name:         name,
		PlayerNumber: playerNumber,
		ImageURL:     imageURL,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id uuid.UUID, name string, playerNumber int, imageURL *string) (*model.Player, error) {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	player.Name = name
	player.PlayerNumber = playerNumber
	player.ImageURL = imageURL
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	return s.playerRepo.Delete(ctx, id)
}
