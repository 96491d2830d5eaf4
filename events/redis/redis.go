package redis

import (
	"context"
	"crypto/tls"
	"log"

	"github.com/redis/go-redis/v9"
)

type RedisBroker struct {
	client redis.UniversalClient
}

func NewRedisBroker(ctx context.Context, devMode bool, redisEndpoint string) (*RedisBroker, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// AWS elasticache endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, err
	}

	return &RedisBroker{client: client}, nil
}

func buildChannel(channel string) string {
	return "drafty:" + channel
}

func (redisBroker *RedisBroker) Publish(ctx context.Context, channel string, message []byte) error {
	if err := redisBroker.client.Publish(ctx, buildChannel(channel), message).Err(); err != nil {
		return err
	}
	return nil
}

func (redisBroker *RedisBroker) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	pubsub := redisBroker.client.Subscribe(ctx, buildChannel(channel))
	// Ensure subscription is established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		log.Printf("Pubsub channel closed: %s", channel)
		return err
	}

	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}

func (redisBroker *RedisBroker) Close() error {
	return redisBroker.client.Close()
}
