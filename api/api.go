package api

import (
	"context"
	"log"
	"net/http"

	"github.com/SunnySoftwareTech/Drafty/api/rest"
	"github.com/SunnySoftwareTech/Drafty/api/ws"
	"github.com/SunnySoftwareTech/Drafty/events"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/mq"
	"github.com/SunnySoftwareTech/Drafty/remote"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

// How long the coalescer waits before forwarding collected sync requests.
const coalesceMilliseconds = 500

type DraftyAPI struct {
	Service     *service.Service
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	shutdownCtx context.Context
}

// NewDraftyAPI starts the background workers and builds the handlers. A nil
// syncQueue disables queued sync; push and pull then only run inline.
func NewDraftyAPI(
	local *localstore.LocalStore,
	provider remote.Provider,
	broker events.Broker,
	syncQueue mq.MessageQueue,
	jwtSecret []byte,
	shutdownCtx context.Context,
) (*DraftyAPI, error) {
	wsHub := ws.NewHub(broker)
	err := wsHub.InitSubscriptions(shutdownCtx)
	if err != nil {
		log.Printf("Failed to start WS Hub subscriptions service: %v", err)
		return &DraftyAPI{}, err
	}
	go wsHub.Run(shutdownCtx)

	var coalescer *worker.SyncCoalescer
	if syncQueue != nil {
		coalescer = worker.NewSyncCoalescer(syncQueue, coalesceMilliseconds)
		go coalescer.Run(shutdownCtx)
	}

	svc, err := service.NewService(local, provider, broker, coalescer, jwtSecret)
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return &DraftyAPI{}, err
	}

	if syncQueue != nil {
		syncConsumer := worker.NewSyncConsumer(syncQueue, svc)
		go syncConsumer.Run(shutdownCtx)
	}

	return &DraftyAPI{
		Service:     svc,
		restHandler: rest.NewHandler(svc),
		wsHandler:   ws.NewHandler(svc, wsHub),
		shutdownCtx: shutdownCtx,
	}, nil
}

func (draftyAPI *DraftyAPI) RegisterRoutes(mux *http.ServeMux, requiredOrigin string) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	draftyAPI.restHandler.RegisterRoutes(mux)

	wsUpgrader := draftyAPI.wsHandler.NewWsUpgrader(requiredOrigin)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		draftyAPI.wsHandler.ServeWS(wsUpgrader, w, r, draftyAPI.shutdownCtx)
	})
}
