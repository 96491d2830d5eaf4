package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/store"
)

var ErrEmptyUserID = errors.New("empty user id")

var collectionPrefixes = map[models.Collection]string{
	models.CollectionNotebooks:        "drafty-books-",
	models.CollectionProjects:         "drafty-projects-",
	models.CollectionFlashcards:       "drafty-flashcards-",
	models.CollectionFlashcardFolders: "drafty-flashcard-folders-",
}

const (
	tokenPrefix       = "drafty-gist-token-"
	legacyNotesPrefix = "drafty-notes-"
)

// Key returns the storage key of one user's collection. The user id is
// embedded verbatim; no prefix is a prefix of another.
func Key(userId string, c models.Collection) (string, error) {
	if userId == "" {
		return "", ErrEmptyUserID
	}
	prefix, ok := collectionPrefixes[c]
	if !ok {
		return "", fmt.Errorf("unknown collection: %q", c)
	}
	return prefix + userId, nil
}

func TokenKey(userId string) (string, error) {
	if userId == "" {
		return "", ErrEmptyUserID
	}
	return tokenPrefix + userId, nil
}

func LegacyNotesKey(userId string) (string, error) {
	if userId == "" {
		return "", ErrEmptyUserID
	}
	return legacyNotesPrefix + userId, nil
}

// LocalStore persists each user's collections as JSON arrays in a BlobStore.
// Loads never fail: unreadable data is logged and treated as empty.
type LocalStore struct {
	blobs  store.BlobStore
	logger *log.Logger
}

func New(blobs store.BlobStore, logger *log.Logger) *LocalStore {
	if logger == nil {
		logger = log.New(os.Stderr, "[localstore] ", log.LstdFlags)
	}
	return &LocalStore{blobs: blobs, logger: logger}
}

func loadSlice[T any](ctx context.Context, ls *LocalStore, key string) []T {
	raw, err := ls.blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrItemNotFound) {
			ls.logger.Printf("WARNING: failed to read %s: %v", key, err)
		}
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		ls.logger.Printf("WARNING: failed to decode %s, treating as empty: %v", key, err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func load[T any](ctx context.Context, ls *LocalStore, userId string, c models.Collection) []T {
	key, err := Key(userId, c)
	if err != nil {
		ls.logger.Printf("WARNING: %v", err)
		return []T{}
	}
	return loadSlice[T](ctx, ls, key)
}

func encode[T any](entities []T) ([]byte, error) {
	if entities == nil {
		entities = []T{}
	}
	return json.Marshal(entities)
}

func save[T any](ctx context.Context, ls *LocalStore, userId string, c models.Collection, entities []T) error {
	key, err := Key(userId, c)
	if err != nil {
		return err
	}
	data, err := encode(entities)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := ls.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

func (ls *LocalStore) LoadNotebooks(ctx context.Context, userId string) []models.Notebook {
	notebooks := load[models.Notebook](ctx, ls, userId, models.CollectionNotebooks)
	for i := range notebooks {
		if notebooks[i].Pages == nil {
			notebooks[i].Pages = []models.Page{}
		}
	}
	return notebooks
}

func (ls *LocalStore) LoadProjects(ctx context.Context, userId string) []models.Project {
	projects := load[models.Project](ctx, ls, userId, models.CollectionProjects)
	for i := range projects {
		if projects[i].Items == nil {
			projects[i].Items = []models.ProjectItem{}
		}
	}
	return projects
}

func (ls *LocalStore) LoadFlashcards(ctx context.Context, userId string) []models.Flashcard {
	return load[models.Flashcard](ctx, ls, userId, models.CollectionFlashcards)
}

func (ls *LocalStore) LoadFlashcardFolders(ctx context.Context, userId string) []models.FlashcardFolder {
	return load[models.FlashcardFolder](ctx, ls, userId, models.CollectionFlashcardFolders)
}

func (ls *LocalStore) SaveNotebooks(ctx context.Context, userId string, notebooks []models.Notebook) error {
	return save(ctx, ls, userId, models.CollectionNotebooks, notebooks)
}

func (ls *LocalStore) SaveProjects(ctx context.Context, userId string, projects []models.Project) error {
	return save(ctx, ls, userId, models.CollectionProjects, projects)
}

func (ls *LocalStore) SaveFlashcards(ctx context.Context, userId string, cards []models.Flashcard) error {
	return save(ctx, ls, userId, models.CollectionFlashcards, cards)
}

func (ls *LocalStore) SaveFlashcardFolders(ctx context.Context, userId string, folders []models.FlashcardFolder) error {
	return save(ctx, ls, userId, models.CollectionFlashcardFolders, folders)
}

// SaveFlashcardsAndFolders commits both collections together, for mutations
// that touch folders and the cards filed in them.
func (ls *LocalStore) SaveFlashcardsAndFolders(ctx context.Context, userId string, cards []models.Flashcard, folders []models.FlashcardFolder) error {
	cardsKey, err := Key(userId, models.CollectionFlashcards)
	if err != nil {
		return err
	}
	foldersKey, _ := Key(userId, models.CollectionFlashcardFolders)

	cardsData, err := encode(cards)
	if err != nil {
		return fmt.Errorf("encode flashcards: %w", err)
	}
	foldersData, err := encode(folders)
	if err != nil {
		return fmt.Errorf("encode flashcard folders: %w", err)
	}

	if err := ls.blobs.PutMany(ctx, map[string][]byte{
		cardsKey:   cardsData,
		foldersKey: foldersData,
	}); err != nil {
		return fmt.Errorf("save flashcards and folders: %w", err)
	}
	return nil
}

// Clear removes one collection. Clearing notebooks also drops the legacy
// notes list they were migrated from.
func (ls *LocalStore) Clear(ctx context.Context, userId string, c models.Collection) error {
	key, err := Key(userId, c)
	if err != nil {
		return err
	}
	if err := ls.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", c, err)
	}

	if c == models.CollectionNotebooks {
		legacyKey, _ := LegacyNotesKey(userId)
		if err := ls.blobs.Delete(ctx, legacyKey); err != nil {
			return fmt.Errorf("clear legacy notes: %w", err)
		}
	}
	return nil
}

// ExportBlob renders a collection as an indented JSON array.
func (ls *LocalStore) ExportBlob(ctx context.Context, userId string, c models.Collection) ([]byte, error) {
	if _, err := Key(userId, c); err != nil {
		return nil, err
	}

	var v any
	switch c {
	case models.CollectionNotebooks:
		v = ls.LoadNotebooks(ctx, userId)
	case models.CollectionProjects:
		v = ls.LoadProjects(ctx, userId)
	case models.CollectionFlashcards:
		v = ls.LoadFlashcards(ctx, userId)
	case models.CollectionFlashcardFolders:
		v = ls.LoadFlashcardFolders(ctx, userId)
	}
	return json.MarshalIndent(v, "", "  ")
}

func decodeStrict[T models.Entity](doc []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &models.InvalidEntityError{Reason: "document is not a JSON array"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var out []T
	if err := dec.Decode(&out); err != nil {
		return nil, &models.InvalidEntityError{Reason: err.Error()}
	}
	if dec.More() {
		return nil, &models.InvalidEntityError{Reason: "trailing data after JSON array"}
	}

	if err := models.ValidateCollection(out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ImportBlob replaces a collection with the JSON array in doc. The document
// must decode as the collection's entity type and pass validation; otherwise
// an *models.InvalidEntityError is returned and nothing is written.
//
// Flashcards may only reference folders that exist. Importing folders unlinks
// any card whose folder is not in the new set, in the same write.
func (ls *LocalStore) ImportBlob(ctx context.Context, userId string, c models.Collection, doc []byte) error {
	key, err := Key(userId, c)
	if err != nil {
		return err
	}

	switch c {
	case models.CollectionNotebooks:
		notebooks, err := decodeStrict[models.Notebook](doc)
		if err != nil {
			return err
		}
		return ls.SaveNotebooks(ctx, userId, notebooks)

	case models.CollectionProjects:
		projects, err := decodeStrict[models.Project](doc)
		if err != nil {
			return err
		}
		return ls.SaveProjects(ctx, userId, projects)

	case models.CollectionFlashcards:
		cards, err := decodeStrict[models.Flashcard](doc)
		if err != nil {
			return err
		}
		folders := ls.LoadFlashcardFolders(ctx, userId)
		if err := models.ValidateFolderRefs(cards, folders); err != nil {
			return err
		}
		return ls.SaveFlashcards(ctx, userId, cards)

	case models.CollectionFlashcardFolders:
		folders, err := decodeStrict[models.FlashcardFolder](doc)
		if err != nil {
			return err
		}
		cards := ls.LoadFlashcards(ctx, userId)
		cards = models.UnlinkMissingFolders(cards, folders, time.Now())
		return ls.SaveFlashcardsAndFolders(ctx, userId, cards, folders)
	}

	return fmt.Errorf("import %s: unsupported collection", key)
}

// LoadSnapshot assembles the user's four collections. LastSync is left zero.
func (ls *LocalStore) LoadSnapshot(ctx context.Context, userId string) (models.Snapshot, error) {
	if userId == "" {
		return models.Snapshot{}, ErrEmptyUserID
	}
	snap := models.Snapshot{
		Notebooks:        ls.LoadNotebooks(ctx, userId),
		Projects:         ls.LoadProjects(ctx, userId),
		Flashcards:       ls.LoadFlashcards(ctx, userId),
		FlashcardFolders: ls.LoadFlashcardFolders(ctx, userId),
	}
	snap.Normalize()
	return snap, nil
}

// ApplySnapshot overwrites all four collections in one atomic write.
func (ls *LocalStore) ApplySnapshot(ctx context.Context, userId string, snap models.Snapshot) error {
	if userId == "" {
		return ErrEmptyUserID
	}
	snap.Normalize()

	blobs := make(map[string][]byte, len(models.Collections))
	put := func(c models.Collection, v any) error {
		key, _ := Key(userId, c)
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c, err)
		}
		blobs[key] = data
		return nil
	}
	if err := put(models.CollectionNotebooks, snap.Notebooks); err != nil {
		return err
	}
	if err := put(models.CollectionProjects, snap.Projects); err != nil {
		return err
	}
	if err := put(models.CollectionFlashcards, snap.Flashcards); err != nil {
		return err
	}
	if err := put(models.CollectionFlashcardFolders, snap.FlashcardFolders); err != nil {
		return err
	}

	if err := ls.blobs.PutMany(ctx, blobs); err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}
	return nil
}

// LoadToken returns the user's remote token, or "" when none is saved.
func (ls *LocalStore) LoadToken(ctx context.Context, userId string) (string, error) {
	key, err := TokenKey(userId)
	if err != nil {
		return "", err
	}
	raw, err := ls.blobs.Get(ctx, key)
	if errors.Is(err, store.ErrItemNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(raw), nil
}

func (ls *LocalStore) SaveToken(ctx context.Context, userId string, token string) error {
	key, err := TokenKey(userId)
	if err != nil {
		return err
	}
	if err := ls.blobs.Put(ctx, key, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (ls *LocalStore) LoadLegacyNotes(ctx context.Context, userId string) []models.LegacyNote {
	key, err := LegacyNotesKey(userId)
	if err != nil {
		ls.logger.Printf("WARNING: %v", err)
		return []models.LegacyNote{}
	}
	return loadSlice[models.LegacyNote](ctx, ls, key)
}
