package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/SunnySoftwareTech/Drafty/mq"
)

type SyncAction string

const (
	ActionPush SyncAction = "push"
	ActionPull SyncAction = "pull"
)

func (a SyncAction) Valid() bool {
	return a == ActionPush || a == ActionPull
}

type SyncMessage struct {
	UserId      string     `json:"userId"`
	Action      SyncAction `json:"action"`
	RequestedAt time.Time  `json:"requestedAt"`
}

// SyncHandler runs one queued sync. The returned error is only logged: sync
// failures are reported to the user, never retried.
type SyncHandler interface {
	HandleSync(ctx context.Context, msg SyncMessage) error
}

type SyncConsumer struct {
	syncQueue mq.MessageQueue
	handler   SyncHandler
}

func NewSyncConsumer(syncQueue mq.MessageQueue, handler SyncHandler) *SyncConsumer {
	return &SyncConsumer{
		syncQueue: syncQueue,
		handler:   handler,
	}
}

// Allow a slow remote host to answer the whole discover/create/update chain
const visibilityTimeout = 120

// Run processes one message at a time, so queued syncs never overlap.
func (syncConsumer *SyncConsumer) Run(shutdownCtx context.Context) {
	for {
		msg, err := syncConsumer.syncQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("syncConsumer receive error: %v", err)
			select {
			case <-shutdownCtx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if msg == nil {
			continue
		}

		syncConsumer.process(msg)
	}
}

func (syncConsumer *SyncConsumer) process(msg *mq.Message) {
	var syncMsg SyncMessage
	if err := json.Unmarshal([]byte(msg.Body), &syncMsg); err != nil || syncMsg.UserId == "" || !syncMsg.Action.Valid() {
		log.Printf("Dropping malformed sync message: %q", msg.Body)
		syncConsumer.ack(msg)
		return
	}

	// timeout should be a little less than queue visibility timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(visibilityTimeout-1)*time.Second)
	defer cancel()

	if err := syncConsumer.handler.HandleSync(ctx, syncMsg); err != nil {
		log.Printf("Queued %s for user %s failed: %v", syncMsg.Action, syncMsg.UserId, err)
	}

	syncConsumer.ack(msg)
}

func (syncConsumer *SyncConsumer) ack(msg *mq.Message) {
	if err := syncConsumer.syncQueue.Delete(context.Background(), msg); err != nil {
		log.Printf("syncConsumer delete error: %v", err)
	}
}
