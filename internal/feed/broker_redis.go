package feed

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type redisBroker struct {
	client  *redis.Client
	channel string
}

// NewRedisBroker fans notifications out over a Redis pub/sub channel, so
// result views connected to any instance see increments from every instance.
func NewRedisBroker(client *redis.Client, channel string) Broker {
	return &redisBroker{client: client, channel: channel}
}

func (b *redisBroker) Publish(ctx context.Context) error {
	return b.client.Publish(ctx, b.channel, "1").Err()
}

func (b *redisBroker) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range pubsub.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return out, cancel, nil
}

func (b *redisBroker) Close() error {
	return nil
}
