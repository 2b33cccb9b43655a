package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onevsone/voting/internal/model"
)

func waitForSnapshot(t *testing.T, ch <-chan []model.Player) []model.Player {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tally snapshot")
		return nil
	}
}

func TestTallyBroadcastsSnapshotOnNotification(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]model.Player, error) {
		calls.Add(1)
		return []model.Player{{Name: "Chris", Votes: int(calls.Load())}}, nil
	}

	tally := NewTally(broker, fetch, zap.NewNop())
	require.NoError(t, tally.Start(context.Background()))
	defer tally.Stop()

	sub, cancel := tally.Subscribe()
	defer cancel()

	require.NoError(t, broker.Publish(context.Background()))

	snapshot := waitForSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Chris", snapshot[0].Name)
	// Each notification triggers a full re-fetch, not a delta.
	assert.Equal(t, int32(1), calls.Load())
}

func TestTallySubscribersAreIndependent(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	fetch := func(ctx context.Context) ([]model.Player, error) {
		return []model.Player{{Name: "Chris"}}, nil
	}

	tally := NewTally(broker, fetch, zap.NewNop())
	require.NoError(t, tally.Start(context.Background()))
	defer tally.Stop()

	sub1, cancel1 := tally.Subscribe()
	sub2, cancel2 := tally.Subscribe()
	defer cancel2()

	cancel1()
	_, open := <-sub1
	assert.False(t, open, "detached subscriber channel must be closed")

	require.NoError(t, broker.Publish(context.Background()))
	waitForSnapshot(t, sub2)
}

func TestTallySkipsBroadcastWhenFetchFails(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	fetch := func(ctx context.Context) ([]model.Player, error) {
		return nil, errors.New("db down")
	}

	tally := NewTally(broker, fetch, zap.NewNop())
	require.NoError(t, tally.Start(context.Background()))
	defer tally.Stop()

	sub, cancel := tally.Subscribe()
	defer cancel()

	require.NoError(t, broker.Publish(context.Background()))

	select {
	case <-sub:
		t.Fatal("no snapshot should be delivered when the re-fetch fails")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTallyStopClosesSubscribers(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	fetch := func(ctx context.Context) ([]model.Player, error) {
		return nil, nil
	}

	tally := NewTally(broker, fetch, zap.NewNop())
	require.NoError(t, tally.Start(context.Background()))

	sub, _ := tally.Subscribe()
	tally.Stop()

	_, open := <-sub
	assert.False(t, open)
}
