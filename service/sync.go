package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/remote"
	"github.com/SunnySoftwareTech/Drafty/worker"
)

var ErrAsyncUnavailable = errors.New("async sync is not configured")

// Push uploads the user's whole dataset, creating the remote document on first
// use. Local state is never modified.
func (s *Service) Push(ctx context.Context, userId string) Status {
	if userId == "" {
		return s.publish(s.status(userId, StatusFailed, failure("Sync failed", localstore.ErrEmptyUserID)))
	}
	unlock := s.lockUser(userId)
	defer unlock()

	token, err := s.Local.LoadToken(ctx, userId)
	if err != nil {
		return s.publish(s.status(userId, StatusFailed, failure("Sync failed", err)))
	}
	if token == "" {
		return s.publish(s.status(userId, StatusMissingToken, msgSaveTokenFirst))
	}

	snap, err := s.Local.LoadSnapshot(ctx, userId)
	if err != nil {
		return s.publish(s.status(userId, StatusFailed, failure("Sync failed", err)))
	}
	// Upload only what a pull would accept back
	if err := models.ValidateSnapshot(snap); err != nil {
		log.Printf("Refusing to push invalid data for user %s: %v", userId, err)
		return s.publish(s.status(userId, StatusFailed, failure("Sync failed", err)))
	}
	snap.LastSync = s.now()

	if err := pushSnapshot(ctx, s.clientFor(userId, token), snap); err != nil {
		log.Printf("Push for user %s failed: %v", userId, err)
		return s.publish(s.status(userId, StatusFailed, failure("Sync failed", err)))
	}

	return s.publish(s.status(userId, StatusSynced, msgSynced))
}

func pushSnapshot(ctx context.Context, client remote.SnapshotClient, snap models.Snapshot) error {
	id, found, err := client.Discover(ctx)
	if err != nil {
		return err
	}
	if !found {
		_, err := client.Create(ctx, snap)
		return err
	}
	return client.Update(ctx, id, snap)
}

// Pull replaces all four local collections with the remote snapshot. The
// remote copy wins unconditionally.
func (s *Service) Pull(ctx context.Context, userId string) Status {
	if userId == "" {
		return s.publish(s.status(userId, StatusFailed, failure("Load failed", localstore.ErrEmptyUserID)))
	}
	unlock := s.lockUser(userId)
	defer unlock()

	token, err := s.Local.LoadToken(ctx, userId)
	if err != nil {
		return s.publish(s.status(userId, StatusFailed, failure("Load failed", err)))
	}
	if token == "" {
		return s.publish(s.status(userId, StatusMissingToken, msgSaveTokenFirst))
	}

	snap, err := fetchSnapshot(ctx, s.clientFor(userId, token))
	if err != nil {
		log.Printf("Pull for user %s failed: %v", userId, err)
		return s.publish(s.status(userId, StatusFailed, failure("Load failed", err)))
	}
	if snap == nil {
		return s.publish(s.status(userId, StatusNoRemoteData, msgNoRemoteData))
	}

	if err := models.ValidateSnapshot(*snap); err != nil {
		log.Printf("Rejected remote snapshot for user %s: %v", userId, err)
		return s.publish(s.status(userId, StatusFailed, failure("Load failed", err)))
	}
	// Stamped from the document, so pulling it again writes the same bytes
	snap.Flashcards = models.UnlinkMissingFolders(snap.Flashcards, snap.FlashcardFolders, snap.LastSync)

	if err := s.Local.ApplySnapshot(ctx, userId, *snap); err != nil {
		return s.publish(s.status(userId, StatusFailed, failure("Load failed", err)))
	}

	return s.publish(s.status(userId, StatusLoaded, msgLoaded))
}

// fetchSnapshot returns nil when there is no document or no snapshot file.
func fetchSnapshot(ctx context.Context, client remote.SnapshotClient) (*models.Snapshot, error) {
	id, found, err := client.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return client.Fetch(ctx, id)
}

// SaveToken checks the token against the remote host and stores it only when
// the host accepts it.
func (s *Service) SaveToken(ctx context.Context, userId, token string) Status {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.publish(s.status(userId, StatusMissingToken, msgEnterToken))
	}
	if userId == "" {
		return s.publish(s.status(userId, StatusFailed, failure("Token check failed", localstore.ErrEmptyUserID)))
	}
	if err := ValidateToken(token); err != nil {
		return s.publish(s.status(userId, StatusInvalidToken, msgInvalidToken))
	}
	unlock := s.lockUser(userId)
	defer unlock()

	ok, err := s.Remote.TestToken(ctx, token)
	if err != nil {
		log.Printf("Token check for user %s failed: %v", userId, err)
		return s.publish(s.status(userId, StatusFailed, failure("Token check failed", err)))
	}
	if !ok {
		return s.publish(s.status(userId, StatusInvalidToken, msgInvalidToken))
	}

	if err := s.Local.SaveToken(ctx, userId, token); err != nil {
		return s.publish(s.status(userId, StatusFailed, failure("Token check failed", err)))
	}
	return s.publish(s.status(userId, StatusTokenSaved, msgTokenSaved))
}

// HasToken reports whether a token is saved, without revealing it.
func (s *Service) HasToken(ctx context.Context, userId string) (bool, error) {
	token, err := s.Local.LoadToken(ctx, userId)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// HandleSync runs a queued sync. It implements worker.SyncHandler.
func (s *Service) HandleSync(ctx context.Context, msg worker.SyncMessage) error {
	var st Status
	switch msg.Action {
	case worker.ActionPush:
		st = s.Push(ctx, msg.UserId)
	case worker.ActionPull:
		st = s.Pull(ctx, msg.UserId)
	default:
		return fmt.Errorf("unknown sync action %q", msg.Action)
	}

	if st.Failed() {
		return errors.New(st.Message)
	}
	return nil
}

// RequestSync queues a push or pull. The outcome arrives later on the status
// channel.
func (s *Service) RequestSync(ctx context.Context, userId string, action worker.SyncAction) (Status, error) {
	if s.Coalescer == nil {
		return Status{}, ErrAsyncUnavailable
	}
	if userId == "" {
		return Status{}, localstore.ErrEmptyUserID
	}
	if !action.Valid() {
		return Status{}, fmt.Errorf("unknown sync action %q", action)
	}

	select {
	case s.Coalescer.RequestCh <- worker.SyncRequest{UserId: userId, Action: action}:
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	return s.publish(s.status(userId, StatusQueued, fmt.Sprintf("Queued %s", action))), nil
}
