package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidEntity = errors.New("invalid entity")

type InvalidEntityError struct {
	Reason string
}

func (e *InvalidEntityError) Error() string {
	return "invalid entity: " + e.Reason
}

func (e *InvalidEntityError) Is(target error) bool {
	return target == ErrInvalidEntity
}

func invalid(format string, args ...any) error {
	return &InvalidEntityError{Reason: fmt.Sprintf(format, args...)}
}

func validateMeta(kind, id string, createdAt, updatedAt time.Time) error {
	if id == "" {
		return invalid("%s: missing id", kind)
	}
	if createdAt.IsZero() {
		return invalid("%s %s: missing createdAt", kind, id)
	}
	if updatedAt.IsZero() {
		return invalid("%s %s: missing updatedAt", kind, id)
	}
	if updatedAt.Before(createdAt) {
		return invalid("%s %s: updatedAt before createdAt", kind, id)
	}
	return nil
}

func ValidatePage(p Page) error {
	return validateMeta("page", p.Id, p.CreatedAt, p.UpdatedAt)
}

func ValidateNotebook(nb Notebook) error {
	if err := validateMeta("notebook", nb.Id, nb.CreatedAt, nb.UpdatedAt); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(nb.Pages))
	for _, p := range nb.Pages {
		if err := ValidatePage(p); err != nil {
			return err
		}
		if _, dup := seen[p.Id]; dup {
			return invalid("notebook %s: duplicate page id %s", nb.Id, p.Id)
		}
		seen[p.Id] = struct{}{}
	}
	return nil
}

func ValidateFlashcardFolder(f FlashcardFolder) error {
	return validateMeta("folder", f.Id, f.CreatedAt, f.UpdatedAt)
}

func ValidateFlashcard(c Flashcard) error {
	if err := validateMeta("flashcard", c.Id, c.CreatedAt, c.UpdatedAt); err != nil {
		return err
	}
	if c.FolderId != nil && *c.FolderId == "" {
		return invalid("flashcard %s: empty folderId", c.Id)
	}
	return nil
}

func ValidateProject(p Project) error {
	if err := validateMeta("project", p.Id, p.CreatedAt, p.UpdatedAt); err != nil {
		return err
	}
	for _, item := range p.Items {
		if !item.Kind.Valid() {
			return invalid("project %s: unknown item kind %q", p.Id, item.Kind)
		}
		if item.Id == "" {
			return invalid("project %s: item without id", p.Id)
		}
	}
	return nil
}

// Validate dispatches on the entity type.
func Validate(entity any) error {
	switch e := entity.(type) {
	case Page:
		return ValidatePage(e)
	case Notebook:
		return ValidateNotebook(e)
	case FlashcardFolder:
		return ValidateFlashcardFolder(e)
	case Flashcard:
		return ValidateFlashcard(e)
	case Project:
		return ValidateProject(e)
	default:
		return invalid("unsupported entity type %T", entity)
	}
}

// ValidateCollection validates every entity and checks that ids are unique.
func ValidateCollection[T Entity](entities []T) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if err := Validate(e); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		id := e.EntityId()
		if _, dup := seen[id]; dup {
			return invalid("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateFolderRefs reports the first flashcard whose folder does not exist.
func ValidateFolderRefs(cards []Flashcard, folders []FlashcardFolder) error {
	known := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		known[f.Id] = struct{}{}
	}
	for _, c := range cards {
		if c.FolderId == nil {
			continue
		}
		if _, ok := known[*c.FolderId]; !ok {
			return invalid("flashcard %s: folder %s does not exist", c.Id, *c.FolderId)
		}
	}
	return nil
}

// ValidateSnapshot checks each of the four collections. Folder references are
// not checked here; see UnlinkMissingFolders.
func ValidateSnapshot(snap Snapshot) error {
	if err := ValidateCollection(snap.Notebooks); err != nil {
		return fmt.Errorf("books: %w", err)
	}
	if err := ValidateCollection(snap.Projects); err != nil {
		return fmt.Errorf("projects: %w", err)
	}
	if err := ValidateCollection(snap.Flashcards); err != nil {
		return fmt.Errorf("flashcards: %w", err)
	}
	if err := ValidateCollection(snap.FlashcardFolders); err != nil {
		return fmt.Errorf("flashcardFolders: %w", err)
	}
	return nil
}
