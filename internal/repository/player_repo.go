package repository

import (
	"context"

	"github.com/google/uuid"

	"onevsone/voting/internal/model"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Player, error)
	// List returns all players ascending by player_number.
	List(ctx context.Context) ([]model.Player, error)
	Update(ctx context.Context, player *model.Player) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementVotes adds 1 to the player's counter server-side, so
	// concurrent increments never lose an update.
	IncrementVotes(ctx context.Context, id uuid.UUID) error
}
