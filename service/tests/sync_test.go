package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/mq/chanmq"
	"github.com/SunnySoftwareTech/Drafty/remote"
	remotemocks "github.com/SunnySoftwareTech/Drafty/remote/mocks"
	"github.com/SunnySoftwareTech/Drafty/service"
	"github.com/SunnySoftwareTech/Drafty/store/memstore"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

func scenarioData() seedData {
	return seedData{
		notebooks: []models.Notebook{{Id: "1", Name: "A", Pages: []models.Page{}, CreatedAt: t0, UpdatedAt: t0}},
		projects:  []models.Project{},
		cards:     []models.Flashcard{{Id: "f1", Front: "Q", Back: "A", FolderId: nil, CreatedAt: t0, UpdatedAt: t0}},
		folders:   []models.FlashcardFolder{},
		token:     "ghp_valid",
	}
}

func TestPush_CreatesDocumentWhenNoneExists(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	d := scenarioData()
	seed(t, svc, "u1", d)

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client).Once()
	client.On("Discover", ctx).Return("", false, nil).Once()

	var uploaded models.Snapshot
	client.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		uploaded = args.Get(1).(models.Snapshot)
	}).Return("gist-1", nil).Once()

	st := svc.Push(ctx, "u1")

	assert.Equal(t, service.StatusSynced, st.Kind)
	assert.Equal(t, "Successfully synced to Gist!", st.Message)
	assert.False(t, st.Failed())
	client.AssertNumberOfCalls(t, "Create", 1)
	client.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	want := models.Snapshot{
		Notebooks:        d.notebooks,
		Projects:         []models.Project{},
		Flashcards:       d.cards,
		FlashcardFolders: []models.FlashcardFolder{},
		LastSync:         t0,
	}
	assert.Equal(t, want, uploaded)
}

func TestPush_UpdatesExistingDocument(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Update", ctx, "gist-1", mock.Anything).Return(nil)

	st := svc.Push(ctx, "u1")

	assert.Equal(t, service.StatusSynced, st.Kind)
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPush_ReusesClientWhileTokenUnchanged(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client).Once()
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Update", ctx, "gist-1", mock.Anything).Return(nil)

	svc.Push(ctx, "u1")
	svc.Push(ctx, "u1")

	mockProvider.AssertNumberOfCalls(t, "NewClient", 1)
	client.AssertNumberOfCalls(t, "Update", 2)

	// a new token gets a new client
	require.NoError(t, svc.Local.SaveToken(ctx, "u1", "ghp_other"))
	other := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_other").Return(other).Once()
	other.On("Discover", ctx).Return("gist-1", true, nil)
	other.On("Update", ctx, "gist-1", mock.Anything).Return(nil)

	svc.Push(ctx, "u1")
	other.AssertNumberOfCalls(t, "Update", 1)
}

func TestPush_MissingToken(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	d := scenarioData()
	d.token = ""
	seed(t, svc, "u1", d)

	st := svc.Push(context.Background(), "u1")

	assert.Equal(t, service.StatusMissingToken, st.Kind)
	assert.Equal(t, "Error: Please save a valid token first", st.Message)
	assert.True(t, st.Failed())
	mockProvider.AssertNotCalled(t, "NewClient", mock.Anything)
}

func TestPush_RemoteFailure(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())
	before := snapshotBlobs(t, blobs)

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("", false, &remote.Error{Op: "list gists", StatusCode: 500})

	st := svc.Push(ctx, "u1")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.True(t, strings.HasPrefix(st.Message, "Error: Sync failed: "))
	assert.Contains(t, st.Message, "HTTP 500")
	assert.Equal(t, before, snapshotBlobs(t, blobs))
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPush_Unavailable(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("", false, fmt.Errorf("list gists: %w: %w", remote.ErrUnavailable, context.DeadlineExceeded))

	st := svc.Push(ctx, "u1")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.Contains(t, st.Message, "remote host unavailable")
}

func TestPush_EmptyUser(t *testing.T) {
	svc, _, _, _ := setupService(t)

	st := svc.Push(context.Background(), "")
	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.True(t, st.Failed())
}

func TestPull_FileMissingLeavesLocalUnchanged(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())
	before := snapshotBlobs(t, blobs)

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Fetch", ctx, "gist-1").Return(nil, nil)

	st := svc.Pull(ctx, "u1")

	assert.Equal(t, service.StatusNoRemoteData, st.Kind)
	assert.Equal(t, "No data found in Gist", st.Message)
	assert.False(t, st.Failed())
	assert.Equal(t, before, snapshotBlobs(t, blobs))
}

func TestPull_NoDocument(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("", false, nil)

	st := svc.Pull(ctx, "u1")

	assert.Equal(t, service.StatusNoRemoteData, st.Kind)
	client.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestPull_OverwritesAllCollections(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	remoteSnap := &models.Snapshot{
		Notebooks:        []models.Notebook{{Id: "r1", Name: "Remote", Pages: []models.Page{}, CreatedAt: t0, UpdatedAt: t0}},
		Projects:         []models.Project{{Id: "p1", Name: "P", Items: []models.ProjectItem{{Kind: models.KindNotebook, Id: "r1"}}, CreatedAt: t0, UpdatedAt: t0}},
		Flashcards:       []models.Flashcard{},
		FlashcardFolders: []models.FlashcardFolder{{Id: "fo1", Name: "F", CreatedAt: t0, UpdatedAt: t0}},
		LastSync:         t0,
	}
	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Fetch", ctx, "gist-1").Return(remoteSnap, nil)

	st := svc.Pull(ctx, "u1")

	assert.Equal(t, service.StatusLoaded, st.Kind)
	assert.Equal(t, "Successfully loaded from Gist!", st.Message)
	assert.Equal(t, remoteSnap.Notebooks, svc.Local.LoadNotebooks(ctx, "u1"))
	assert.Equal(t, remoteSnap.Projects, svc.Local.LoadProjects(ctx, "u1"))
	assert.Empty(t, svc.Local.LoadFlashcards(ctx, "u1"))
	assert.Equal(t, remoteSnap.FlashcardFolders, svc.Local.LoadFlashcardFolders(ctx, "u1"))
}

func TestPull_InvalidRemoteDataIsRejected(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())
	before := snapshotBlobs(t, blobs)

	bad := &models.Snapshot{
		Notebooks:        []models.Notebook{{Id: "", Name: "no id", Pages: []models.Page{}, CreatedAt: t0, UpdatedAt: t0}},
		Projects:         []models.Project{},
		Flashcards:       []models.Flashcard{},
		FlashcardFolders: []models.FlashcardFolder{},
	}
	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Fetch", ctx, "gist-1").Return(bad, nil)

	st := svc.Pull(ctx, "u1")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.True(t, strings.HasPrefix(st.Message, "Error: Load failed: "))
	assert.Equal(t, before, snapshotBlobs(t, blobs))
}

func TestPull_UnlinksCardsFromMissingFolders(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	remoteSnap := &models.Snapshot{
		Notebooks:        []models.Notebook{},
		Projects:         []models.Project{},
		Flashcards:       []models.Flashcard{{Id: "c1", Front: "Q", FolderId: strPtr("gone"), CreatedAt: t0, UpdatedAt: t0}},
		FlashcardFolders: []models.FlashcardFolder{},
	}
	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Fetch", ctx, "gist-1").Return(remoteSnap, nil)

	require.Equal(t, service.StatusLoaded, svc.Pull(ctx, "u1").Kind)

	cards := svc.Local.LoadFlashcards(ctx, "u1")
	require.Len(t, cards, 1)
	assert.Nil(t, cards[0].FolderId)
}

func TestPull_RemoteError(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	client := new(remotemocks.MockSnapshotClient)
	mockProvider.On("NewClient", "ghp_valid").Return(client)
	client.On("Discover", ctx).Return("gist-1", true, nil)
	client.On("Fetch", ctx, "gist-1").Return(nil, &remote.Error{Op: "fetch gist", StatusCode: 404, Message: "Not Found"})

	st := svc.Pull(ctx, "u1")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.Contains(t, st.Message, "Not Found")
}

func TestPushThenPull_RestoresCollections(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	d := seedData{
		notebooks: []models.Notebook{{Id: "nb1", Name: "Math", CreatedAt: t0, UpdatedAt: t0, Pages: []models.Page{
			{Id: "pg1", Name: "Limits", Content: "<p>x</p>", Order: 0, CreatedAt: t0, UpdatedAt: t0},
		}}},
		projects: []models.Project{{Id: "p1", Name: "Exam", CreatedAt: t0, UpdatedAt: t0, Items: []models.ProjectItem{
			{Kind: models.KindPage, Id: "pg1"}, {Kind: models.KindFlashcard, Id: "c1"},
		}}},
		cards:   []models.Flashcard{{Id: "c1", Front: "Q", Back: "A", FolderId: strPtr("fo1"), CreatedAt: t0, UpdatedAt: t0}},
		folders: []models.FlashcardFolder{{Id: "fo1", Name: "Calc", CreatedAt: t0, UpdatedAt: t0}},
		token:   "ghp_valid",
	}
	seed(t, svc, "u1", d)

	fake := &memRemote{}
	mockProvider.On("NewClient", "ghp_valid").Return(fake)

	require.Equal(t, service.StatusSynced, svc.Push(ctx, "u1").Kind)
	for _, c := range models.Collections {
		require.NoError(t, svc.Local.Clear(ctx, "u1", c))
	}
	require.Empty(t, svc.Local.LoadNotebooks(ctx, "u1"))

	require.Equal(t, service.StatusLoaded, svc.Pull(ctx, "u1").Kind)

	assert.Equal(t, d.notebooks, svc.Local.LoadNotebooks(ctx, "u1"))
	assert.Equal(t, d.projects, svc.Local.LoadProjects(ctx, "u1"))
	assert.Equal(t, d.cards, svc.Local.LoadFlashcards(ctx, "u1"))
	assert.Equal(t, d.folders, svc.Local.LoadFlashcardFolders(ctx, "u1"))
	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, 0, fake.updates)

	require.Equal(t, service.StatusSynced, svc.Push(ctx, "u1").Kind)
	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, 1, fake.updates)
}

func TestSaveToken_InvalidKeepsPreviousToken(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	require.NoError(t, svc.Local.SaveToken(ctx, "u1", "ghp_old"))

	mockProvider.On("TestToken", ctx, "ghp_bad").Return(false, nil)

	st := svc.SaveToken(ctx, "u1", "ghp_bad")

	assert.Equal(t, service.StatusInvalidToken, st.Kind)
	assert.Equal(t, "Error: Invalid token - please check your token", st.Message)
	token, err := svc.Local.LoadToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ghp_old", token)
}

func TestSaveToken_InvalidLeavesKeyAbsent(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()

	mockProvider.On("TestToken", ctx, "ghp_bad").Return(false, nil)

	st := svc.SaveToken(ctx, "u1", "ghp_bad")

	assert.Equal(t, service.StatusInvalidToken, st.Kind)
	assert.Empty(t, blobs.Keys())
}

func TestSaveToken_Success(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()

	mockProvider.On("TestToken", ctx, "ghp_good").Return(true, nil)

	st := svc.SaveToken(ctx, "u1", "  ghp_good\n")

	assert.Equal(t, service.StatusTokenSaved, st.Kind)
	assert.Equal(t, "Token saved successfully!", st.Message)
	token, err := svc.Local.LoadToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ghp_good", token)

	has, err := svc.HasToken(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSaveToken_Empty(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)

	st := svc.SaveToken(context.Background(), "u1", "   ")

	assert.Equal(t, service.StatusMissingToken, st.Kind)
	assert.Equal(t, "Error: Please enter a token", st.Message)
	mockProvider.AssertNotCalled(t, "TestToken", mock.Anything, mock.Anything)
}

func TestSaveToken_MalformedNeverReachesHost(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)

	st := svc.SaveToken(context.Background(), "u1", "ghp with spaces")

	assert.Equal(t, service.StatusInvalidToken, st.Kind)
	mockProvider.AssertNotCalled(t, "TestToken", mock.Anything, mock.Anything)
}

func TestSaveToken_CheckFails(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()

	mockProvider.On("TestToken", ctx, "ghp_x").Return(false, remote.ErrUnavailable)

	st := svc.SaveToken(ctx, "u1", "ghp_x")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.True(t, strings.HasPrefix(st.Message, "Error: Token check failed: "))
	assert.Empty(t, blobs.Keys())
}

func TestStatusIsPublished(t *testing.T) {
	svc, _, _, mockBroker := setupService(t)

	svc.SaveToken(context.Background(), "u1", "")

	require.Len(t, mockBroker.Calls, 1)
	var st service.Status
	require.NoError(t, json.Unmarshal(mockBroker.Calls[0].Arguments.Get(2).([]byte), &st))
	assert.Equal(t, service.StatusMissingToken, st.Kind)
	assert.Equal(t, "u1", st.UserId)
	assert.Equal(t, t0, st.At)
}

func TestStatusWithoutBroker(t *testing.T) {
	local := localstore.New(memstore.New(), log.New(io.Discard, "", 0))
	svc, err := service.NewService(local, new(remotemocks.MockProvider), nil, nil, nil)
	require.NoError(t, err)

	st := svc.SaveToken(context.Background(), "u1", "")
	assert.Equal(t, service.StatusMissingToken, st.Kind)
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	_, err := service.NewService(nil, new(remotemocks.MockProvider), nil, nil, nil)
	assert.Error(t, err)

	local := localstore.New(memstore.New(), log.New(io.Discard, "", 0))
	_, err = service.NewService(local, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestHandleSync(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", scenarioData())

	fake := &memRemote{}
	mockProvider.On("NewClient", "ghp_valid").Return(fake)

	assert.NoError(t, svc.HandleSync(ctx, worker.SyncMessage{UserId: "u1", Action: worker.ActionPush}))
	assert.NoError(t, svc.HandleSync(ctx, worker.SyncMessage{UserId: "u1", Action: worker.ActionPull}))

	err := svc.HandleSync(ctx, worker.SyncMessage{UserId: "u2", Action: worker.ActionPush})
	assert.EqualError(t, err, "Error: Please save a valid token first")

	assert.Error(t, svc.HandleSync(ctx, worker.SyncMessage{UserId: "u1", Action: "merge"}))
}

func TestRequestSync(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.RequestSync(ctx, "u1", worker.ActionPush)
	assert.ErrorIs(t, err, service.ErrAsyncUnavailable)

	svc.Coalescer = worker.NewSyncCoalescer(chanmq.NewChanMessageQueue(4, time.Second), 1000)

	st, err := svc.RequestSync(ctx, "u1", worker.ActionPull)
	require.NoError(t, err)
	assert.Equal(t, service.StatusQueued, st.Kind)
	assert.False(t, st.Failed())
	assert.Equal(t, worker.SyncRequest{UserId: "u1", Action: worker.ActionPull}, <-svc.Coalescer.RequestCh)

	_, err = svc.RequestSync(ctx, "u1", "merge")
	assert.Error(t, err)
	_, err = svc.RequestSync(ctx, "", worker.ActionPush)
	assert.True(t, errors.Is(err, localstore.ErrEmptyUserID))
}

func snapshotBlobs(t *testing.T, blobs *memstore.MemBlobStore) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, k := range blobs.Keys() {
		v, err := blobs.Get(context.Background(), k)
		require.NoError(t, err)
		out[k] = string(v)
	}
	return out
}

func TestPush_RefusesDataPullWouldReject(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	seed(t, svc, "u1", seedData{
		notebooks: []models.Notebook{{Id: "1", Name: "A", Pages: []models.Page{}}},
		token:     "ghp_valid",
	})

	fake := &memRemote{}
	mockProvider.On("NewClient", "ghp_valid").Return(fake).Maybe()

	st := svc.Push(ctx, "u1")

	assert.Equal(t, service.StatusFailed, st.Kind)
	assert.True(t, strings.HasPrefix(st.Message, "Error: Sync failed: "), st.Message)
	assert.Contains(t, st.Message, "notebook 1: missing createdAt")
	assert.Equal(t, 0, fake.creates)
	assert.Equal(t, 0, fake.updates)
}

func TestPush_RepeatedPushUploadsSameEntities(t *testing.T) {
	svc, _, mockProvider, _ := setupService(t)
	ctx := context.Background()
	clock := &stepClock{t: t0}
	svc.Now = clock.Now
	seed(t, svc, "u1", scenarioData())

	fake := &memRemote{}
	mockProvider.On("NewClient", "ghp_valid").Return(fake)

	uploaded := func() models.Snapshot {
		snap, err := fake.Fetch(ctx, fake.id)
		require.NoError(t, err)
		require.NotNil(t, snap)
		return *snap
	}

	require.Equal(t, service.StatusSynced, svc.Push(ctx, "u1").Kind)
	first := uploaded()
	require.Equal(t, service.StatusSynced, svc.Push(ctx, "u1").Kind)
	second := uploaded()

	assert.True(t, second.LastSync.After(first.LastSync))
	first.LastSync, second.LastSync = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
}

func TestPull_RepeatedPullLeavesSameLocalData(t *testing.T) {
	svc, blobs, mockProvider, _ := setupService(t)
	ctx := context.Background()
	clock := &stepClock{t: t0}
	svc.Now = clock.Now
	seed(t, svc, "u1", seedData{token: "ghp_valid"})

	lastSync := t0.Add(time.Hour)
	content, err := json.Marshal(models.Snapshot{
		Flashcards: []models.Flashcard{{Id: "c1", Front: "Q", Back: "A", FolderId: strPtr("gone"), CreatedAt: t0, UpdatedAt: t0}},
		LastSync:   lastSync,
	})
	require.NoError(t, err)
	fake := &memRemote{id: "gist-1", content: content}
	mockProvider.On("NewClient", "ghp_valid").Return(fake)

	keys := make([]string, 0, len(models.Collections))
	for _, c := range models.Collections {
		key, err := localstore.Key("u1", c)
		require.NoError(t, err)
		keys = append(keys, key)
	}
	stored := func() map[string][]byte {
		out := make(map[string][]byte, len(keys))
		for _, key := range keys {
			raw, err := blobs.Get(ctx, key)
			require.NoError(t, err)
			out[key] = raw
		}
		return out
	}

	require.Equal(t, service.StatusLoaded, svc.Pull(ctx, "u1").Kind)
	first := stored()
	require.Equal(t, service.StatusLoaded, svc.Pull(ctx, "u1").Kind)
	second := stored()

	assert.Equal(t, first, second)

	cards := svc.Local.LoadFlashcards(ctx, "u1")
	require.Len(t, cards, 1)
	assert.Nil(t, cards[0].FolderId)
	assert.Equal(t, lastSync, cards[0].UpdatedAt)
}
