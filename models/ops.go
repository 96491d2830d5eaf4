package models

import (
	"slices"
	"time"
)

// Entity is any of the collection element types. Every helper in this file
// returns a new slice and leaves its input untouched.
type Entity interface {
	Notebook | Page | Project | Flashcard | FlashcardFolder
	EntityId() string
}

func (nb Notebook) EntityId() string { return nb.Id }
func (p Page) EntityId() string { return p.Id }
func (p Project) EntityId() string { return p.Id }
func (c Flashcard) EntityId() string { return c.Id }
func (f FlashcardFolder) EntityId() string { return f.Id }

func FindByID[T Entity](entities []T, id string) (T, bool) {
	for _, e := range entities {
		if e.EntityId() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// ReplaceByID returns a copy of entities with the element sharing e's id
// replaced by e. ok is false when no element matched.
func ReplaceByID[T Entity](entities []T, e T) ([]T, bool) {
	out := make([]T, len(entities))
	copy(out, entities)
	for i := range out {
		if out[i].EntityId() == e.EntityId() {
			out[i] = e
			return out, true
		}
	}
	return out, false
}

func RemoveByID[T Entity](entities []T, id string) ([]T, bool) {
	out := make([]T, 0, len(entities))
	found := false
	for _, e := range entities {
		if e.EntityId() == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

// DeleteNotebook removes the notebook together with the pages it owns. Project
// items pointing at it or its pages are left to go stale.
func DeleteNotebook(notebooks []Notebook, id string) ([]Notebook, bool) {
	return RemoveByID(notebooks, id)
}

// Touch returns the updatedAt to stamp on a mutation, never earlier than createdAt.
func Touch(createdAt, now time.Time) time.Time {
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// UnlinkFolder clears FolderId on every card filed under folderId. Cards are
// never removed.
func UnlinkFolder(cards []Flashcard, folderId string, now time.Time) []Flashcard {
	out := make([]Flashcard, len(cards))
	for i, c := range cards {
		if c.FolderId != nil && *c.FolderId == folderId {
			c.FolderId = nil
			c.UpdatedAt = Touch(c.CreatedAt, now)
		}
		out[i] = c
	}
	return out
}

// UnlinkMissingFolders clears FolderId on every card whose folder is not in
// folders. UpdatedAt moves forward to now but never back.
func UnlinkMissingFolders(cards []Flashcard, folders []FlashcardFolder, now time.Time) []Flashcard {
	known := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		known[f.Id] = struct{}{}
	}
	out := make([]Flashcard, len(cards))
	for i, c := range cards {
		if c.FolderId != nil {
			if _, ok := known[*c.FolderId]; !ok {
				c.FolderId = nil
				if stamp := Touch(c.CreatedAt, now); stamp.After(c.UpdatedAt) {
					c.UpdatedAt = stamp
				}
			}
		}
		out[i] = c
	}
	return out
}

func NextPageOrder(pages []Page) int {
	next := 0
	for _, p := range pages {
		if p.Order >= next {
			next = p.Order + 1
		}
	}
	return next
}

// SortPages orders pages for display. Equal orders keep insertion order.
func SortPages(pages []Page) []Page {
	out := slices.Clone(pages)
	slices.SortStableFunc(out, func(a, b Page) int {
		return a.Order - b.Order
	})
	return out
}

// FindPage locates a page across all notebooks.
func FindPage(notebooks []Notebook, pageId string) (Notebook, Page, bool) {
	for _, nb := range notebooks {
		for _, p := range nb.Pages {
			if p.Id == pageId {
				return nb, p, true
			}
		}
	}
	return Notebook{}, Page{}, false
}

// AddItem puts item first in the list unless an identical reference is
// already present.
func AddItem(items []ProjectItem, item ProjectItem) ([]ProjectItem, bool) {
	if slices.Contains(items, item) {
		return slices.Clone(items), false
	}
	out := make([]ProjectItem, 0, len(items)+1)
	out = append(out, item)
	out = append(out, items...)
	return out, true
}

func RemoveItem(items []ProjectItem, item ProjectItem) ([]ProjectItem, bool) {
	out := make([]ProjectItem, 0, len(items))
	found := false
	for _, it := range items {
		if it == item {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}

// ResolveItems splits a project's references into those that still point at a
// live entity and those that have gone stale. Stale references are not errors.
func ResolveItems(p Project, notebooks []Notebook, cards []Flashcard) (live, stale []ProjectItem) {
	live = []ProjectItem{}
	stale = []ProjectItem{}
	for _, it := range p.Items {
		var ok bool
		switch it.Kind {
		case KindNotebook:
			_, ok = FindByID(notebooks, it.Id)
		case KindFlashcard:
			_, ok = FindByID(cards, it.Id)
		case KindPage:
			_, _, ok = FindPage(notebooks, it.Id)
		}
		if ok {
			live = append(live, it)
		} else {
			stale = append(stale, it)
		}
	}
	return live, stale
}
