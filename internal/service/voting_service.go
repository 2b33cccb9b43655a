package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"onevsone/voting/internal/feed"
	"onevsone/voting/internal/model"
	"onevsone/voting/internal/repository"
)

// SessionState is the tagged state of a voting token.
type SessionState string

const (
	StateNotYetVoted  SessionState = "not_yet_voted"
	StateAlreadyVoted SessionState = "already_voted"
)

// Session is the resolved view of a token that every page load branches on.
type Session struct {
	TokenID  uuid.UUID    `json:"token_id"`
	State    SessionState `json:"state"`
	VotedFor *uuid.UUID   `json:"voted_for,omitempty"`
}

type VotingService interface {
	// ResolveToken validates a token string and reports whether its owner
	// has voted yet. Unknown tokens fail with ErrInvalidToken.
	ResolveToken(ctx context.Context, token string) (*Session, error)
	// CastVote records a single vote for playerId on behalf of the token's
	// owner: ledger append, token flag flip, atomic tally increment.
	CastVote(ctx context.Context, token string, playerID uuid.UUID) error
	// Results returns all players sorted by votes descending.
	Results(ctx context.Context) ([]model.Player, error)
}

type votingService struct {
	tokenRepo  repository.TokenRepository
	playerRepo repository.PlayerRepository
	voteRepo   repository.VoteRepository
	broker     feed.Broker
	logger     *zap.Logger
}

func NewVotingService(
	tokenRepo repository.TokenRepository,
	playerRepo repository.PlayerRepository,
	voteRepo repository.VoteRepository,
	broker feed.Broker,
	logger *zap.Logger,
) VotingService {
	return &votingService{
		tokenRepo:  tokenRepo,
		playerRepo: playerRepo,
		voteRepo:   voteRepo,
		broker:     broker,
		logger:     logger,
	}
}

func (s *votingService) ResolveToken(ctx context.Context, token string) (*Session, error) {
	t, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if t.HasVoted {
		return &Session{TokenID: t.ID, State: StateAlreadyVoted, VotedFor: t.VotedFor}, nil
	}
	return &Session{TokenID: t.ID, State: StateNotYetVoted}, nil
}

// CastVote runs the vote commit sequence. The has_voted check and the later
// flag write are not wrapped in a transaction, matching the storage model:
// two concurrent casts with the same token can both pass the check. The one
// step that must never lose an update under concurrency, the player counter,
// is a server-side atomic increment.
func (s *votingService) CastVote(ctx context.Context, token string, playerID uuid.UUID) error {
	t, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if t.HasVoted {
		return ErrAlreadyVoted
	}

	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	vote := &model.Vote{UserID: t.ID, PlayerID: playerID}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		// First commit step: nothing persisted yet, so no inconsistency.
		return &PartialVoteError{Step: StepRecordVote, Err: err}
	}

	if err := s.tokenRepo.MarkVoted(ctx, t.ID, playerID); err != nil {
		s.logInconsistency(t.ID, playerID, StepMarkVoted, err)
		return &PartialVoteError{Step: StepMarkVoted, Err: err}
	}

	if err := s.playerRepo.IncrementVotes(ctx, playerID); err != nil {
		s.logInconsistency(t.ID, playerID, StepIncrementVotes, err)
		return &PartialVoteError{Step: StepIncrementVotes, Err: err}
	}

	if err := s.broker.Publish(ctx); err != nil {
		// Feed is best-effort; the vote itself committed.
		s.logger.Warn("tally-changed publish failed", zap.Error(err))
	}
	return nil
}

func (s *votingService) Results(ctx context.Context) ([]model.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Votes > players[j].Votes
	})
	return players, nil
}

func (s *votingService) logInconsistency(tokenID, playerID uuid.UUID, step string, err error) {
	s.logger.Error("vote commit left inconsistent state, manual reconciliation needed",
		zap.String("step", step),
		zap.String("token_id", tokenID.String()),
		zap.String("player_id", playerID.String()),
		zap.Error(err),
	)
}
