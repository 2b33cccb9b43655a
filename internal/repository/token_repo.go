package repository

import (
	"context"

	"github.com/google/uuid"

	"onevsone/voting/internal/model"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByToken(ctx context.Context, token string) (*model.Token, error)
	MarkVoted(ctx context.Context, tokenID, playerID uuid.UUID) error
	List(ctx context.Context) ([]model.Token, error)
}
