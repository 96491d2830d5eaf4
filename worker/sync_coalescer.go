package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/SunnySoftwareTech/Drafty/mq"
)

type SyncRequest struct {
	UserId string
	Action SyncAction
}

// SyncCoalescer collects sync requests and forwards them to the queue once
// per tick, so a burst of identical requests becomes one queued sync.
type SyncCoalescer struct {
	RequestCh          chan SyncRequest
	syncQueue          mq.MessageQueue
	tickerMilliseconds int
}

func NewSyncCoalescer(syncQueue mq.MessageQueue, tickerMilliseconds int) *SyncCoalescer {
	return &SyncCoalescer{
		RequestCh:          make(chan SyncRequest, 1024),
		syncQueue:          syncQueue,
		tickerMilliseconds: tickerMilliseconds,
	}
}

func (c *SyncCoalescer) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(time.Duration(c.tickerMilliseconds) * time.Millisecond)
	defer ticker.Stop()

	// Only back-to-back duplicates for a user collapse; push, pull, push stays three syncs
	var pending []SyncMessage
	lastAction := make(map[string]SyncAction)

	add := func(req SyncRequest) {
		if lastAction[req.UserId] == req.Action {
			return
		}
		lastAction[req.UserId] = req.Action
		pending = append(pending, SyncMessage{UserId: req.UserId, Action: req.Action, RequestedAt: time.Now()})
	}

	flush := func() {
		for _, msg := range pending {
			body, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to encode sync request for user %s: %v", msg.UserId, err)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := c.syncQueue.Send(ctx, msg.UserId, string(body)); err != nil {
				log.Printf("Failed to enqueue %s for user %s: %v", msg.Action, msg.UserId, err)
			}
			cancel()
		}
		pending = nil
		lastAction = make(map[string]SyncAction)
	}

	for {
		select {
		case req := <-c.RequestCh:
			add(req)

			if len(pending) >= 100 {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-shutdownCtx.Done():
		drain:
			for {
				select {
				case req := <-c.RequestCh:
					add(req)
				default:
					break drain
				}
			}
			flush()
			return
		}
	}
}
