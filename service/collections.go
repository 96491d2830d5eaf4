package service

import (
	"context"

	"github.com/SunnySoftwareTech/Drafty/models"
)

func (s *Service) ExportCollection(ctx context.Context, userId string, c models.Collection) ([]byte, error) {
	return s.Local.ExportBlob(ctx, userId, c)
}

// ImportCollection replaces a collection with doc. A rejected document leaves
// the stored collection as it was.
func (s *Service) ImportCollection(ctx context.Context, userId string, c models.Collection, doc []byte) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	return s.Local.ImportBlob(ctx, userId, c, doc)
}

func (s *Service) ClearCollection(ctx context.Context, userId string, c models.Collection) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	return s.Local.Clear(ctx, userId, c)
}

// Snapshot assembles what a push would upload, without a lastSync.
func (s *Service) Snapshot(ctx context.Context, userId string) (models.Snapshot, error) {
	return s.Local.LoadSnapshot(ctx, userId)
}
