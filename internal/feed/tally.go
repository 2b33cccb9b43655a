package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"onevsone/voting/internal/model"
)

// FetchFunc returns the current result snapshot delivered to subscribers.
type FetchFunc func(ctx context.Context) ([]model.Player, error)

// Tally owns the re-fetch-and-broadcast step of the live results feed: each
// broker notification triggers one full re-fetch (not a delta), and the
// snapshot goes to every attached subscriber. Slow subscribers have their
// stale snapshot replaced rather than queued, so nobody blocks the fan-out.
type Tally struct {
	broker Broker
	fetch  FetchFunc
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan []model.Player

	cancel context.CancelFunc
	done   chan struct{}
}

func NewTally(broker Broker, fetch FetchFunc, logger *zap.Logger) *Tally {
	return &Tally{
		broker: broker,
		fetch:  fetch,
		logger: logger,
		subs:   make(map[int]chan []model.Player),
	}
}

// Start attaches to the broker and runs the broadcast loop until Stop.
func (t *Tally) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	notifications, unsubscribe, err := t.broker.Subscribe(ctx)
	if err != nil {
		cancel()
		return err
	}

	t.cancel = cancel
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notifications:
				if !ok {
					return
				}
				t.broadcast(ctx)
			}
		}
	}()
	return nil
}

// Stop halts the broadcast loop and closes all subscriber channels.
func (t *Tally) Stop() {
	if t.cancel != nil {
		t.cancel()
		<-t.done
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

// Subscribe registers a result-view subscriber. The returned cancel func
// detaches it without affecting other subscribers or the underlying data.
func (t *Tally) Subscribe() (<-chan []model.Player, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan []model.Player, 1)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if sub, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (t *Tally) broadcast(ctx context.Context) {
	players, err := t.fetch(ctx)
	if err != nil {
		t.logger.Warn("tally re-fetch failed, skipping broadcast", zap.Error(err))
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		// Replace a stale undelivered snapshot with the fresh one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- players:
		default:
		}
	}
}
