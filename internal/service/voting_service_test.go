package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onevsone/voting/internal/feed"
	"onevsone/voting/internal/model"
	"onevsone/voting/internal/service"
	"onevsone/voting/internal/testutil"
)

type fixture struct {
	tokens  *testutil.FakeTokenRepo
	players *testutil.FakePlayerRepo
	votes   *testutil.FakeVoteRepo
	broker  feed.Broker
	svc     service.VotingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tokens:  testutil.NewFakeTokenRepo(),
		players: testutil.NewFakePlayerRepo(),
		votes:   testutil.NewFakeVoteRepo(),
		broker:  feed.NewMemoryBroker(),
	}
	f.svc = service.NewVotingService(f.tokens, f.players, f.votes, f.broker, zap.NewNop())
	return f
}

func (f *fixture) addToken(t *testing.T, code string) *model.Token {
	t.Helper()
	token := &model.Token{Token: code}
	require.NoError(t, f.tokens.Create(context.Background(), token))
	return token
}

func (f *fixture) addPlayer(t *testing.T, name string, number int) *model.Player {
	t.Helper()
	player := &model.Player{Name: name, PlayerNumber: number}
	require.NoError(t, f.players.Create(context.Background(), player))
	return player
}

func TestCastVoteSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")
	player := f.addPlayer(t, "Chris", 1)

	require.NoError(t, f.svc.CastVote(ctx, "abc123", player.ID))

	session, err := f.svc.ResolveToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, service.StateAlreadyVoted, session.State)
	require.NotNil(t, session.VotedFor)
	assert.Equal(t, player.ID, *session.VotedFor)

	updated, err := f.players.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Votes)

	ledger := f.votes.Votes()
	require.Len(t, ledger, 1)
	assert.Equal(t, player.ID, ledger[0].PlayerID)
}

func TestCastVoteAlreadyVoted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")
	first := f.addPlayer(t, "Chris", 1)
	second := f.addPlayer(t, "Marco", 2)

	require.NoError(t, f.svc.CastVote(ctx, "abc123", first.ID))

	err := f.svc.CastVote(ctx, "abc123", second.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyVoted)

	// Rejection has no side effects: one ledger row, counters untouched.
	assert.Len(t, f.votes.Votes(), 1)
	p2, err := f.players.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Votes)

	// Terminal state still points at the first committed player.
	session, err := f.svc.ResolveToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, service.StateAlreadyVoted, session.State)
	assert.Equal(t, first.ID, *session.VotedFor)
}

func TestUnknownToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.addPlayer(t, "Chris", 1)

	_, err := f.svc.ResolveToken(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	err = f.svc.CastVote(ctx, "nope", player.ID)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Empty(t, f.votes.Votes())
}

func TestCastVoteUnknownPlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")

	err := f.svc.CastVote(ctx, "abc123", uuid.New())
	assert.ErrorIs(t, err, service.ErrPlayerNotFound)

	// Token must remain usable.
	session, err := f.svc.ResolveToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, service.StateNotYetVoted, session.State)
	assert.Empty(t, f.votes.Votes())
}

func TestCastVotePartialFailureMarkVoted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")
	player := f.addPlayer(t, "Chris", 1)

	cause := errors.New("connection reset")
	f.tokens.MarkVotedErr = cause

	err := f.svc.CastVote(ctx, "abc123", player.ID)

	var partial *service.PartialVoteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, service.StepMarkVoted, partial.Step)
	assert.ErrorIs(t, err, cause)

	// The ledger row persisted before the failure; no compensation happens.
	assert.Len(t, f.votes.Votes(), 1)
	updated, err := f.players.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Votes)
}

func TestCastVotePartialFailureIncrement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")
	player := f.addPlayer(t, "Chris", 1)

	cause := errors.New("connection reset")
	f.players.IncrementErr = cause

	err := f.svc.CastVote(ctx, "abc123", player.ID)

	var partial *service.PartialVoteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, service.StepIncrementVotes, partial.Step)

	// Token already flipped: the voter cannot retry, counter lags the ledger.
	session, err := f.svc.ResolveToken(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, service.StateAlreadyVoted, session.State)
	assert.Len(t, f.votes.Votes(), 1)
}

func TestConcurrentIncrementsNeverLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player := f.addPlayer(t, "Chris", 1)

	const n = 50
	codes := make([]string, n)
	for i := range codes {
		codes[i] = uuid.NewString()
		f.addToken(t, codes[i])
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			_ = f.svc.CastVote(ctx, code, player.ID)
		}(codes[i])
	}
	wg.Wait()

	updated, err := f.players.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, n, updated.Votes)
	assert.Len(t, f.votes.Votes(), n)
}

func TestResultsSortedByVotesDescending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	low := f.addPlayer(t, "Low", 1)
	high := f.addPlayer(t, "High", 2)

	for i := 0; i < 3; i++ {
		code := uuid.NewString()
		f.addToken(t, code)
		require.NoError(t, f.svc.CastVote(ctx, code, high.ID))
	}
	code := uuid.NewString()
	f.addToken(t, code)
	require.NoError(t, f.svc.CastVote(ctx, code, low.ID))

	results, err := f.svc.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, high.ID, results[0].ID)
	assert.Equal(t, 3, results[0].Votes)
	assert.Equal(t, low.ID, results[1].ID)
	assert.Equal(t, 1, results[1].Votes)
}

// TestEndToEndScenario walks the full issue -> resolve -> vote -> results
// lifecycle of a single token.
func TestEndToEndScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	player42 := f.addPlayer(t, "Player 42", 42)
	player7 := f.addPlayer(t, "Player 7", 7)

	mint := service.NewTokenService(f.tokens, 6)
	issued, err := mint.MintTokens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, issued, 1)
	code := issued[0]

	session, err := f.svc.ResolveToken(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, service.StateNotYetVoted, session.State)

	require.NoError(t, f.svc.CastVote(ctx, code, player42.ID))

	session, err = f.svc.ResolveToken(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, service.StateAlreadyVoted, session.State)
	assert.Equal(t, player42.ID, *session.VotedFor)

	updated, err := f.players.GetByID(ctx, player42.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Votes)

	err = f.svc.CastVote(ctx, code, player7.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyVoted)
	p7, err := f.players.GetByID(ctx, player7.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p7.Votes)
}

func TestCastVotePublishesTallyChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addToken(t, "abc123")
	player := f.addPlayer(t, "Chris", 1)

	notifications, cancel, err := f.broker.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, f.svc.CastVote(ctx, "abc123", player.ID))

	select {
	case <-notifications:
	default:
		t.Fatal("expected a tally-changed notification after a committed vote")
	}
}
