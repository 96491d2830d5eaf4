package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SunnySoftwareTech/Drafty/models"
)

func TestUnlinkFolder(t *testing.T) {
	later := t0.Add(time.Hour)
	cards := []models.Flashcard{
		{Id: "1", FolderId: strPtr("F"), CreatedAt: t0, UpdatedAt: t0},
		{Id: "2", FolderId: strPtr("G"), CreatedAt: t0, UpdatedAt: t0},
		{Id: "3", CreatedAt: t0, UpdatedAt: t0},
		{Id: "4", FolderId: strPtr("F"), CreatedAt: t0, UpdatedAt: t0},
	}

	out := models.UnlinkFolder(cards, "F", later)

	assert.Len(t, out, len(cards))
	assert.Nil(t, out[0].FolderId)
	assert.Equal(t, later, out[0].UpdatedAt)
	assert.Equal(t, "G", *out[1].FolderId)
	assert.Equal(t, t0, out[1].UpdatedAt)
	assert.Nil(t, out[2].FolderId)
	assert.Nil(t, out[3].FolderId)

	// input is untouched
	assert.Equal(t, "F", *cards[0].FolderId)
}

func TestUnlinkMissingFolders(t *testing.T) {
	later := t0.Add(time.Hour)
	cards := []models.Flashcard{
		{Id: "1", FolderId: strPtr("kept"), CreatedAt: t0, UpdatedAt: t0},
		{Id: "2", FolderId: strPtr("gone"), CreatedAt: t0, UpdatedAt: t0},
		{Id: "3", FolderId: strPtr("gone"), CreatedAt: t0, UpdatedAt: later},
	}
	folders := []models.FlashcardFolder{{Id: "kept", CreatedAt: t0, UpdatedAt: t0}}

	out := models.UnlinkMissingFolders(cards, folders, t0.Add(time.Minute))

	assert.Equal(t, "kept", *out[0].FolderId)
	assert.Equal(t, t0, out[0].UpdatedAt)
	assert.Nil(t, out[1].FolderId)
	assert.Equal(t, t0.Add(time.Minute), out[1].UpdatedAt)
	assert.Nil(t, out[2].FolderId)
	assert.Equal(t, later, out[2].UpdatedAt, "updatedAt never moves back")

	// A zero stamp leaves timestamps alone
	again := models.UnlinkMissingFolders(cards, folders, time.Time{})
	assert.Equal(t, t0, again[1].UpdatedAt)
	assert.Equal(t, "gone", *cards[1].FolderId, "input is not modified")
}

func TestRemoveNotebook_TakesOnlyItsPages(t *testing.T) {
	notebooks := []models.Notebook{
		{Id: "a", Pages: []models.Page{{Id: "a1"}, {Id: "a2"}}},
		{Id: "b", Pages: []models.Page{{Id: "b1"}}},
	}

	out, ok := models.DeleteNotebook(notebooks, "a")
	assert.True(t, ok)
	assert.Len(t, out, 1)

	_, _, found := models.FindPage(out, "a1")
	assert.False(t, found)
	_, _, found = models.FindPage(out, "b1")
	assert.True(t, found)
	assert.Len(t, notebooks, 2)
}

func TestReplaceByID_CopyOnWrite(t *testing.T) {
	folders := []models.FlashcardFolder{{Id: "1", Name: "old"}}
	out, ok := models.ReplaceByID(folders, models.FlashcardFolder{Id: "1", Name: "new"})
	assert.True(t, ok)
	assert.Equal(t, "new", out[0].Name)
	assert.Equal(t, "old", folders[0].Name)

	_, ok = models.ReplaceByID(folders, models.FlashcardFolder{Id: "2"})
	assert.False(t, ok)
}

func TestPageOrdering(t *testing.T) {
	assert.Equal(t, 0, models.NextPageOrder(nil))

	pages := []models.Page{{Id: "x", Order: 2}, {Id: "y", Order: 0}, {Id: "z", Order: 2}}
	assert.Equal(t, 3, models.NextPageOrder(pages))

	sorted := models.SortPages(pages)
	assert.Equal(t, []string{"y", "x", "z"}, []string{sorted[0].Id, sorted[1].Id, sorted[2].Id})
}

func TestTouch(t *testing.T) {
	assert.Equal(t, t0, models.Touch(t0, t0.Add(-time.Minute)))
	assert.Equal(t, t0.Add(time.Minute), models.Touch(t0, t0.Add(time.Minute)))
}

func TestProjectItems(t *testing.T) {
	item := models.ProjectItem{Kind: models.KindNotebook, Id: "1"}
	items, added := models.AddItem(nil, item)
	assert.True(t, added)

	items, added = models.AddItem(items, item)
	assert.False(t, added)
	assert.Len(t, items, 1)

	card := models.ProjectItem{Kind: models.KindFlashcard, Id: "1"}
	items, _ = models.AddItem(items, card)
	assert.Equal(t, card, items[0])

	items, removed := models.RemoveItem(items, item)
	assert.True(t, removed)
	assert.Equal(t, []models.ProjectItem{card}, items)
}

func TestResolveItems_ToleratesStale(t *testing.T) {
	notebooks := []models.Notebook{{Id: "nb", Pages: []models.Page{{Id: "pg"}}}}
	cards := []models.Flashcard{{Id: "c"}}
	project := models.Project{Id: "p", Items: []models.ProjectItem{
		{Kind: models.KindNotebook, Id: "nb"},
		{Kind: models.KindPage, Id: "pg"},
		{Kind: models.KindFlashcard, Id: "c"},
		{Kind: models.KindNotebook, Id: "deleted"},
		{Kind: models.KindPage, Id: "orphan"},
	}}

	live, stale := models.ResolveItems(project, notebooks, cards)
	assert.Len(t, live, 3)
	assert.Equal(t, []models.ProjectItem{
		{Kind: models.KindNotebook, Id: "deleted"},
		{Kind: models.KindPage, Id: "orphan"},
	}, stale)
}
