package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SunnySoftwareTech/Drafty/events"
	eventsmocks "github.com/SunnySoftwareTech/Drafty/events/mocks"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/models"
	remotemocks "github.com/SunnySoftwareTech/Drafty/remote/mocks"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/store/memstore"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// Helper to setup the service over an in-memory blob store and mocked remote
func setupService(t *testing.T) (*service.Service, *memstore.MemBlobStore, *remotemocks.MockProvider, *eventsmocks.MockBroker) {
	t.Helper()
	blobs := memstore.New()
	local := localstore.New(blobs, log.New(io.Discard, "", 0))
	mockProvider := new(remotemocks.MockProvider)
	mockBroker := new(eventsmocks.MockBroker)
	mockBroker.On("Publish", mock.Anything, events.SyncStatusChannel, mock.Anything).Return(nil).Maybe()

	svc, err := service.NewService(local, mockProvider, mockBroker, nil, []byte("secret"))
	assert.NoError(t, err)
	svc.Now = func() time.Time { return t0 }

	return svc, blobs, mockProvider, mockBroker
}

// stepClock advances one second on every reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type seedData struct {
	notebooks []models.Notebook
	projects  []models.Project
	cards     []models.Flashcard
	folders   []models.FlashcardFolder
	token     string
}

func seed(t *testing.T, svc *service.Service, userId string, d seedData) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.Local.SaveNotebooks(ctx, userId, d.notebooks))
	require.NoError(t, svc.Local.SaveProjects(ctx, userId, d.projects))
	require.NoError(t, svc.Local.SaveFlashcards(ctx, userId, d.cards))
	require.NoError(t, svc.Local.SaveFlashcardFolders(ctx, userId, d.folders))
	if d.token != "" {
		require.NoError(t, svc.Local.SaveToken(ctx, userId, d.token))
	}
}

// memRemote keeps one document in memory, serialized as the real host would.
type memRemote struct {
	mu      sync.Mutex
	id      string
	content []byte
	creates int
	updates int
}

func (r *memRemote) Discover(ctx context.Context) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.id != "", nil
}

func (r *memRemote) Create(ctx context.Context, snap models.Snapshot) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	r.id, r.content = "gist-1", b
	r.creates++
	return r.id, nil
}

func (r *memRemote) Update(ctx context.Context, id string, snap models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	r.content = b
	r.updates++
	return nil
}

func (r *memRemote) Fetch(ctx context.Context, id string) (*models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.content == nil {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal(r.content, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
