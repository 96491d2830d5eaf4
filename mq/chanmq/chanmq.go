package chanmq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/SunnySoftwareTech/Drafty/mq"
)

var ErrQueueFull = errors.New("queue full")

// ChanMessageQueue is an in-process MessageQueue. A received message that is
// not deleted within its visibility timeout is delivered again.
type ChanMessageQueue struct {
	ch       chan *mq.Message
	pollWait time.Duration

	mu       sync.Mutex
	inflight map[string]*time.Timer
}

func NewChanMessageQueue(capacity int, pollWait time.Duration) *ChanMessageQueue {
	if capacity <= 0 {
		capacity = 256
	}
	if pollWait <= 0 {
		pollWait = 20 * time.Second
	}
	return &ChanMessageQueue{
		ch:       make(chan *mq.Message, capacity),
		pollWait: pollWait,
		inflight: make(map[string]*time.Timer),
	}
}

func (q *ChanMessageQueue) Send(ctx context.Context, groupId string, body string) error {
	select {
	case q.ch <- &mq.Message{GroupId: groupId, Body: body}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *ChanMessageQueue) Receive(ctx context.Context, visibilityTimeout int32) (*mq.Message, error) {
	timer := time.NewTimer(q.pollWait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	case msg := <-q.ch:
		receipt, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		delivered := &mq.Message{Id: receipt.String(), GroupId: msg.GroupId, Body: msg.Body}

		q.mu.Lock()
		q.inflight[delivered.Id] = time.AfterFunc(time.Duration(visibilityTimeout)*time.Second, func() {
			q.redeliver(delivered)
		})
		q.mu.Unlock()
		return delivered, nil
	}
}

func (q *ChanMessageQueue) redeliver(msg *mq.Message) {
	q.mu.Lock()
	_, ok := q.inflight[msg.Id]
	delete(q.inflight, msg.Id)
	q.mu.Unlock()
	if !ok {
		return
	}

	select {
	case q.ch <- &mq.Message{GroupId: msg.GroupId, Body: msg.Body}:
	default:
	}
}

func (q *ChanMessageQueue) Delete(ctx context.Context, msg *mq.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.inflight[msg.Id]; ok {
		t.Stop()
		delete(q.inflight, msg.Id)
	}
	return nil
}

// Len reports how many messages wait to be received.
func (q *ChanMessageQueue) Len() int {
	return len(q.ch)
}
