// Package testutil provides in-memory fakes of the storage repositories so
// service and handler tests run without a database. Error injection fields
// let tests fail individual steps of the vote commit sequence.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onevsone/voting/internal/model"
	"onevsone/voting/internal/repository"
)

type FakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.Token

	// FailCreateAfter fails Create once len(tokens) reaches the value.
	// Negative means never fail.
	FailCreateAfter int
	CreateErr       error
	MarkVotedErr    error
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens:          make(map[string]*model.Token),
		FailCreateAfter: -1,
	}
}

var _ repository.TokenRepository = (*FakeTokenRepo)(nil)

func (r *FakeTokenRepo) Create(_ context.Context, token *model.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreateAfter >= 0 && len(r.tokens) >= r.FailCreateAfter {
		return r.CreateErr
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *FakeTokenRepo) GetByToken(_ context.Context, token string) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *FakeTokenRepo) MarkVoted(_ context.Context, tokenID, playerID uuid.UUID) error {
	if r.MarkVotedErr != nil {
		return r.MarkVotedErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.ID == tokenID {
			voted := playerID
			t.HasVoted = true
			t.VotedFor = &voted
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *FakeTokenRepo) List(_ context.Context) ([]model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		out = append(out, *t)
	}
	return out, nil
}

type FakePlayerRepo struct {
	mu      sync.Mutex
	players map[uuid.UUID]*model.Player

	IncrementErr error
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{players: make(map[uuid.UUID]*model.Player)}
}

var _ repository.PlayerRepository = (*FakePlayerRepo)(nil)

func (r *FakePlayerRepo) Create(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *FakePlayerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *FakePlayerRepo) List(_ context.Context) ([]model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	// Ascending by player_number, as the pg repository orders it.
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerNumber < out[j].PlayerNumber
	})
	return out, nil
}

func (r *FakePlayerRepo) Update(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[player.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *FakePlayerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.players, id)
	return nil
}

// IncrementVotes mirrors the server-side atomic add: the read-modify-write
// happens under the store's own lock, never in the caller.
func (r *FakePlayerRepo) IncrementVotes(_ context.Context, id uuid.UUID) error {
	if r.IncrementErr != nil {
		return r.IncrementErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Votes++
	return nil
}

type FakeVoteRepo struct {
	mu    sync.Mutex
	votes []model.Vote

	CreateErr error
}

func NewFakeVoteRepo() *FakeVoteRepo {
	return &FakeVoteRepo{}
}

var _ repository.VoteRepository = (*FakeVoteRepo)(nil)

func (r *FakeVoteRepo) Create(_ context.Context, vote *model.Vote) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *FakeVoteRepo) CountByPlayer(_ context.Context, playerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, v := range r.votes {
		if v.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

// Votes returns a copy of the ledger for assertions.
func (r *FakeVoteRepo) Votes() []model.Vote {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Vote, len(r.votes))
	copy(out, r.votes)
	return out
}
