package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SunnySoftwareTech/Drafty/api"
	"github.com/SunnySoftwareTech/Drafty/events"
	"github.com/SunnySoftwareTech/Drafty/events/local"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/mq/chanmq"
	remotemocks "github.com/SunnySoftwareTech/Drafty/remote/mocks"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/store/memstore"
)

type statusLog struct {
	mu       sync.Mutex
	statuses []service.Status
}

func (l *statusLog) kinds() []service.StatusKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	var kinds []service.StatusKind
	for _, st := range l.statuses {
		kinds = append(kinds, st.Kind)
	}
	return kinds
}

func setupDraftyAPI(t *testing.T) (*api.DraftyAPI, *http.ServeMux, *statusLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	broker := local.NewLocalBroker(64)
	seen := &statusLog{}
	require.NoError(t, broker.Subscribe(ctx, events.SyncStatusChannel, func(message []byte) {
		var st service.Status
		if json.Unmarshal(message, &st) == nil {
			seen.mu.Lock()
			seen.statuses = append(seen.statuses, st)
			seen.mu.Unlock()
		}
	}))

	ls := localstore.New(memstore.New(), log.New(io.Discard, "", 0))
	queue := chanmq.NewChanMessageQueue(16, 50*time.Millisecond)
	draftyAPI, err := api.NewDraftyAPI(ls, new(remotemocks.MockProvider), broker, queue, []byte("secret"), ctx)
	require.NoError(t, err)

	mux := http.NewServeMux()
	draftyAPI.RegisterRoutes(mux, "http://localhost:5173")
	return draftyAPI, mux, seen
}

func TestHealth(t *testing.T) {
	_, mux, _ := setupDraftyAPI(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRoutesRequireSession(t *testing.T) {
	_, mux, _ := setupDraftyAPI(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notebooks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAsyncPushRunsThroughQueue(t *testing.T) {
	draftyAPI, mux, seen := setupDraftyAPI(t)
	token, err := draftyAPI.Service.CreateSessionToken("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync/push?async=true", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	// No gist token is saved, so the queued push ends as missing-token
	require.Eventually(t, func() bool {
		kinds := seen.kinds()
		return len(kinds) == 2 && kinds[1] == service.StatusMissingToken
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, service.StatusQueued, seen.kinds()[0])
}
