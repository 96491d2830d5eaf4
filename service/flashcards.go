package service

import (
	"context"
	"fmt"

	"github.com/SunnySoftwareTech/Drafty/models"
)

// ListFlashcards returns all cards, or only those filed under folderID when it
// is set.
func (s *Service) ListFlashcards(ctx context.Context, userId, folderID string) []models.Flashcard {
	cards := s.Local.LoadFlashcards(ctx, userId)
	if folderID == "" {
		return cards
	}
	out := []models.Flashcard{}
	for _, c := range cards {
		if c.FolderId != nil && *c.FolderId == folderID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) checkFolder(ctx context.Context, userId string, folderID *string) error {
	if folderID == nil {
		return nil
	}
	if _, ok := models.FindByID(s.Local.LoadFlashcardFolders(ctx, userId), *folderID); !ok {
		return fmt.Errorf("folder %s: %w", *folderID, ErrUnknownFolder)
	}
	return nil
}

// CreateFlashcard puts a new card first. folderID, when set, must name an
// existing folder.
func (s *Service) CreateFlashcard(ctx context.Context, userId, front, back string, folderID *string) (models.Flashcard, error) {
	if err := validateCard(front, back); err != nil {
		return models.Flashcard{}, err
	}
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Flashcard{}, err
	}
	defer unlock()

	if err := s.checkFolder(ctx, userId, folderID); err != nil {
		return models.Flashcard{}, err
	}
	id, err := newId()
	if err != nil {
		return models.Flashcard{}, err
	}

	now := s.now()
	card := models.Flashcard{Id: id, Front: front, Back: back, FolderId: folderID, CreatedAt: now, UpdatedAt: now}

	cards := append([]models.Flashcard{card}, s.Local.LoadFlashcards(ctx, userId)...)
	if err := s.Local.SaveFlashcards(ctx, userId, cards); err != nil {
		return models.Flashcard{}, err
	}
	return card, nil
}

func (s *Service) UpdateFlashcard(ctx context.Context, userId, id, front, back string) (models.Flashcard, error) {
	if err := validateCard(front, back); err != nil {
		return models.Flashcard{}, err
	}
	return s.updateFlashcard(ctx, userId, id, func(c *models.Flashcard) error {
		c.Front = front
		c.Back = back
		return nil
	})
}

// MoveFlashcard files the card under folderID, or unfiles it when nil.
func (s *Service) MoveFlashcard(ctx context.Context, userId, id string, folderID *string) (models.Flashcard, error) {
	return s.updateFlashcard(ctx, userId, id, func(c *models.Flashcard) error {
		if err := s.checkFolder(ctx, userId, folderID); err != nil {
			return err
		}
		c.FolderId = folderID
		return nil
	})
}

func (s *Service) updateFlashcard(ctx context.Context, userId, id string, fn func(c *models.Flashcard) error) (models.Flashcard, error) {
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Flashcard{}, err
	}
	defer unlock()

	cards := s.Local.LoadFlashcards(ctx, userId)
	card, ok := models.FindByID(cards, id)
	if !ok {
		return models.Flashcard{}, fmt.Errorf("flashcard %s: %w", id, ErrNotFound)
	}
	if err := fn(&card); err != nil {
		return models.Flashcard{}, err
	}
	card.UpdatedAt = models.Touch(card.CreatedAt, s.now())

	cards, _ = models.ReplaceByID(cards, card)
	if err := s.Local.SaveFlashcards(ctx, userId, cards); err != nil {
		return models.Flashcard{}, err
	}
	return card, nil
}

func (s *Service) DeleteFlashcard(ctx context.Context, userId, id string) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	cards, ok := models.RemoveByID(s.Local.LoadFlashcards(ctx, userId), id)
	if !ok {
		return fmt.Errorf("flashcard %s: %w", id, ErrNotFound)
	}
	return s.Local.SaveFlashcards(ctx, userId, cards)
}

func (s *Service) ListFolders(ctx context.Context, userId string) []models.FlashcardFolder {
	return s.Local.LoadFlashcardFolders(ctx, userId)
}

func (s *Service) CreateFolder(ctx context.Context, userId, name string) (models.FlashcardFolder, error) {
	name, err := normalizeName(name, defaultFolderName)
	if err != nil {
		return models.FlashcardFolder{}, err
	}
	unlock, err := s.begin(userId)
	if err != nil {
		return models.FlashcardFolder{}, err
	}
	defer unlock()

	id, err := newId()
	if err != nil {
		return models.FlashcardFolder{}, err
	}
	now := s.now()
	folder := models.FlashcardFolder{Id: id, Name: name, CreatedAt: now, UpdatedAt: now}

	folders := append([]models.FlashcardFolder{folder}, s.Local.LoadFlashcardFolders(ctx, userId)...)
	if err := s.Local.SaveFlashcardFolders(ctx, userId, folders); err != nil {
		return models.FlashcardFolder{}, err
	}
	return folder, nil
}

func (s *Service) RenameFolder(ctx context.Context, userId, id, name string) (models.FlashcardFolder, error) {
	name, err := normalizeName(name, defaultFolderName)
	if err != nil {
		return models.FlashcardFolder{}, err
	}
	unlock, err := s.begin(userId)
	if err != nil {
		return models.FlashcardFolder{}, err
	}
	defer unlock()

	folders := s.Local.LoadFlashcardFolders(ctx, userId)
	folder, ok := models.FindByID(folders, id)
	if !ok {
		return models.FlashcardFolder{}, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	folder.Name = name
	folder.UpdatedAt = models.Touch(folder.CreatedAt, s.now())

	folders, _ = models.ReplaceByID(folders, folder)
	if err := s.Local.SaveFlashcardFolders(ctx, userId, folders); err != nil {
		return models.FlashcardFolder{}, err
	}
	return folder, nil
}

// DeleteFolder removes the folder and unfiles its cards in one write. No card
// is deleted.
func (s *Service) DeleteFolder(ctx context.Context, userId, id string) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	folders, ok := models.RemoveByID(s.Local.LoadFlashcardFolders(ctx, userId), id)
	if !ok {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	cards := models.UnlinkFolder(s.Local.LoadFlashcards(ctx, userId), id, s.now())
	return s.Local.SaveFlashcardsAndFolders(ctx, userId, cards, folders)
}
