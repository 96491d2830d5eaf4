package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SunnySoftwareTech/Drafty/store"
)

type RedisBlobStore struct {
	client redis.UniversalClient
}

func NewRedisBlobStore(ctx context.Context, devMode bool, redisEndpoint string) (*RedisBlobStore, error) {
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

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisBlobStore{client: client}, nil
}

func buildBlobKey(key string) string {
	return "drafty:blob:" + key
}

func (redisStore *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := redisStore.client.Get(ctx, buildBlobKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrItemNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (redisStore *RedisBlobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := redisStore.client.Set(ctx, buildBlobKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (redisStore *RedisBlobStore) Delete(ctx context.Context, key string) error {
	if err := redisStore.client.Del(ctx, buildBlobKey(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PutMany wraps the writes in MULTI/EXEC so readers never see a partial set.
func (redisStore *RedisBlobStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	_, err := redisStore.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range blobs {
			pipe.Set(ctx, buildBlobKey(key), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put many: %w", err)
	}
	return nil
}

func (redisStore *RedisBlobStore) Close() error {
	return redisStore.client.Close()
}
