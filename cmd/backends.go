package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/SunnySoftwareTech/Drafty/config"
	"github.com/SunnySoftwareTech/Drafty/events"
	"github.com/SunnySoftwareTech/Drafty/events/local"
	eventsredis "github.com/SunnySoftwareTech/Drafty/events/redis"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/logging"
	"github.com/SunnySoftwareTech/Drafty/mq"
	"github.com/SunnySoftwareTech/Drafty/mq/chanmq"
	"github.com/SunnySoftwareTech/Drafty/mq/sqsmq"
	"github.com/SunnySoftwareTech/Drafty/remote/gist"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/store"
	"github.com/SunnySoftwareTech/Drafty/store/dynamo"
	"github.com/SunnySoftwareTech/Drafty/store/memstore"
	storeredis "github.com/SunnySoftwareTech/Drafty/store/redis"
	"github.com/SunnySoftwareTech/Drafty/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.Config) (store.BlobStore, error) {
	switch cfg.StoreBackend {
	case config.StoreSqlite:
		return sqlite.NewSqliteBlobStore(ctx, cfg.SqlitePath)
	case config.StoreRedis:
		return storeredis.NewRedisBlobStore(ctx, cfg.DevMode, cfg.RedisEndpoint)
	case config.StoreDynamo:
		return dynamo.NewDynamoBlobStore(ctx, cfg.DevMode, cfg.DynamoDBEndpoint, cfg.DynamoDBTable)
	case config.StoreMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openBroker(ctx context.Context, cfg *config.Config) (events.Broker, error) {
	switch cfg.EventsBackend {
	case config.EventsLocal:
		return local.NewLocalBroker(256), nil
	case config.EventsRedis:
		return eventsredis.NewRedisBroker(ctx, cfg.DevMode, cfg.RedisEndpoint)
	}
	return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
}

// openQueue returns nil, nil when queued sync is disabled.
func openQueue(ctx context.Context, cfg *config.Config) (mq.MessageQueue, error) {
	switch cfg.QueueBackend {
	case config.QueueNone:
		return nil, nil
	case config.QueueChan:
		return chanmq.NewChanMessageQueue(1024, 5*time.Second), nil
	case config.QueueSQS:
		return sqsmq.NewSQSMessageQueue(ctx, cfg.DevMode, cfg.SQSEndpoint, cfg.SQSQueue)
	}
	return nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
}

func newProvider(cfg *config.Config) *gist.GistProvider {
	return gist.NewProvider(gist.Options{
		BaseURL: cfg.RemoteBaseURL,
		Logger:  logging.New("gist"),
	})
}

// withService runs fn against a service backed by the configured store. The
// CLI publishes no events and never queues syncs.
func withService(ctx context.Context, fn func(svc *service.Service) error) error {
	blobs, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer blobs.Close()

	ls := localstore.New(blobs, logging.New("localstore"))
	svc, err := service.NewService(ls, newProvider(cfg), nil, nil, nil)
	if err != nil {
		return err
	}
	return fn(svc)
}
