package feed

import (
	"context"
	"errors"
)

var ErrBrokerClosed = errors.New("feed broker is closed")

// Broker carries tally-changed notifications from the voting workflow to the
// live tally fan-out. A notification carries no payload; receivers re-fetch
// the current state. Delivery is best-effort with no replay.
//
// Implementations: Redis pub/sub (multi-instance) or in-memory (single
// instance / tests).
type Broker interface {
	// Publish signals that some player's tally changed.
	Publish(ctx context.Context) error
	// Subscribe returns a notification channel and a cancel func that
	// detaches the subscriber and closes the channel.
	Subscribe(ctx context.Context) (<-chan struct{}, func(), error)
	Close() error
}
