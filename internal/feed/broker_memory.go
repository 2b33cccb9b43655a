package feed

import (
	"context"
	"sync"
)

type memoryBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
	closed bool
}

func NewMemoryBroker() Broker {
	return &memoryBroker{
		subs: make(map[int]chan struct{}),
	}
}

func (b *memoryBroker) Publish(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		// Non-blocking send: a subscriber that has not drained the previous
		// notification does not need another one queued behind it.
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (b *memoryBroker) Subscribe(_ context.Context) (<-chan struct{}, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBrokerClosed
	}

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel, nil
}

func (b *memoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
