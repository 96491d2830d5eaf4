package events

import "context"

// SyncStatusChannel carries every status the sync service produces.
const SyncStatusChannel = "sync-status"

// Broker is a fire-and-forget publish/subscribe bus. Subscribe returns once the
// subscription is live; handler runs until ctx is cancelled.
type Broker interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handler func(message []byte)) error
	Close() error
}
