package repository

import (
	"context"

	"github.com/google/uuid"

	"onevsone/voting/internal/model"
)

// VoteRepository is the append-only ledger. No dedup happens here; the
// voting service is responsible for not recording twice for one voter.
type VoteRepository interface {
	Create(ctx context.Context, vote *model.Vote) error
	CountByPlayer(ctx context.Context, playerID uuid.UUID) (int64, error)
}
