package local

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("broker closed")

type subscriber struct {
	ch chan []byte
}

// LocalBroker delivers messages to subscribers in this process. Each
// subscriber has a buffered queue; when it is full the message is dropped for
// that subscriber only.
type LocalBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
	closed bool
}

func NewLocalBroker(buffer int) *LocalBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &LocalBroker{subs: make(map[string]map[*subscriber]struct{}), buffer: buffer}
}

func (b *LocalBroker) Publish(ctx context.Context, channel string, message []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs[channel] {
		msg := make([]byte, len(message))
		copy(msg, message)
		select {
		case s.ch <- msg:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	s := &subscriber{ch: make(chan []byte, b.buffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*subscriber]struct{})
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer b.unsubscribe(channel, s)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-s.ch:
				if !ok {
					return
				}
				handler(msg)
			}
		}
	}()

	return nil
}

func (b *LocalBroker) unsubscribe(channel string, s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[channel]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, channel)
		}
	}
}

// Close stops every subscription.
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for channel, set := range b.subs {
		for s := range set {
			close(s.ch)
		}
		delete(b.subs, channel)
	}
	return nil
}
