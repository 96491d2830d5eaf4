package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Page struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Notebook owns its pages. On the wire and in the snapshot it is called a "book".
type Notebook struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Pages     []Page    `json:"pages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FlashcardFolder struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Flashcard.FolderId is a weak reference. nil means the card is unfiled.
type Flashcard struct {
	Id        string    `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	FolderId  *string   `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ItemKind string

const (
	KindNotebook  ItemKind = "notebook"
	KindFlashcard ItemKind = "flashcard"
	KindPage      ItemKind = "page"
)

func (k ItemKind) Valid() bool {
	switch k {
	case KindNotebook, KindFlashcard, KindPage:
		return true
	}
	return false
}

// UnmarshalJSON accepts the legacy "book" spelling written by older clients.
func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("item kind: %w", err)
	}
	if s == "book" {
		s = string(KindNotebook)
	}
	*k = ItemKind(s)
	return nil
}

type ProjectItem struct {
	Kind ItemKind `json:"kind"`
	Id   string   `json:"id"`
}

// Project items are weak references into the other collections and may go stale.
type Project struct {
	Id        string        `json:"id"`
	Name      string        `json:"name"`
	Items     []ProjectItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Snapshot is the whole dataset of one user as exchanged with the remote document.
type Snapshot struct {
	Notebooks        []Notebook        `json:"books"`
	Projects         []Project         `json:"projects"`
	Flashcards       []Flashcard       `json:"flashcards"`
	FlashcardFolders []FlashcardFolder `json:"flashcardFolders"`
	LastSync         time.Time         `json:"lastSync"`
}

// Normalize replaces missing collections with empty ones so that a decoded
// snapshot never carries nil slices.
func (s *Snapshot) Normalize() {
	if s.Notebooks == nil {
		s.Notebooks = []Notebook{}
	}
	for i := range s.Notebooks {
		if s.Notebooks[i].Pages == nil {
			s.Notebooks[i].Pages = []Page{}
		}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	for i := range s.Projects {
		if s.Projects[i].Items == nil {
			s.Projects[i].Items = []ProjectItem{}
		}
	}
	if s.Flashcards == nil {
		s.Flashcards = []Flashcard{}
	}
	if s.FlashcardFolders == nil {
		s.FlashcardFolders = []FlashcardFolder{}
	}
}

// UnmarshalJSON tolerates unknown and missing fields, and a lastSync that is
// absent or not a valid instant.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Notebooks        []Notebook        `json:"books"`
		Projects         []Project         `json:"projects"`
		Flashcards       []Flashcard       `json:"flashcards"`
		FlashcardFolders []FlashcardFolder `json:"flashcardFolders"`
		LastSync         json.RawMessage   `json:"lastSync"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot{
		Notebooks:        raw.Notebooks,
		Projects:         raw.Projects,
		Flashcards:       raw.Flashcards,
		FlashcardFolders: raw.FlashcardFolders,
	}
	if len(raw.LastSync) > 0 {
		var t time.Time
		if err := json.Unmarshal(raw.LastSync, &t); err == nil {
			s.LastSync = t
		}
	}
	s.Normalize()
	return nil
}

type Collection string

const (
	CollectionNotebooks        Collection = "notebooks"
	CollectionProjects         Collection = "projects"
	CollectionFlashcards       Collection = "flashcards"
	CollectionFlashcardFolders Collection = "flashcardFolders"
)

var Collections = []Collection{
	CollectionNotebooks,
	CollectionProjects,
	CollectionFlashcards,
	CollectionFlashcardFolders,
}

func ParseCollection(s string) (Collection, error) {
	switch s {
	case "notebooks", "books":
		return CollectionNotebooks, nil
	case "projects":
		return CollectionProjects, nil
	case "flashcards":
		return CollectionFlashcards, nil
	case "flashcardFolders", "flashcard-folders", "folders":
		return CollectionFlashcardFolders, nil
	}
	return "", fmt.Errorf("unknown collection: %q", s)
}

// LegacyNote is the flat note kept by the first version of the app, before
// notebooks existed. It is only read for migration.
type LegacyNote struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
