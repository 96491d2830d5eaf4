package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SunnySoftwareTech/Drafty/models"
)

// ListNotebooks returns the user's notebooks with pages in display order.
func (s *Service) ListNotebooks(ctx context.Context, userId string) []models.Notebook {
	notebooks := s.Local.LoadNotebooks(ctx, userId)
	for i := range notebooks {
		notebooks[i].Pages = models.SortPages(notebooks[i].Pages)
	}
	return notebooks
}

func (s *Service) GetNotebook(ctx context.Context, userId, id string) (models.Notebook, error) {
	nb, ok := models.FindByID(s.Local.LoadNotebooks(ctx, userId), id)
	if !ok {
		return models.Notebook{}, fmt.Errorf("notebook %s: %w", id, ErrNotFound)
	}
	nb.Pages = models.SortPages(nb.Pages)
	return nb, nil
}

func (s *Service) CreateNotebook(ctx context.Context, userId, name string) (models.Notebook, error) {
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Notebook{}, err
	}
	defer unlock()

	return s.createNotebook(ctx, userId, name, nil)
}

func (s *Service) createNotebook(ctx context.Context, userId, name string, pages []models.Page) (models.Notebook, error) {
	name, err := normalizeName(name, defaultNotebookName)
	if err != nil {
		return models.Notebook{}, err
	}
	id, err := newId()
	if err != nil {
		return models.Notebook{}, err
	}
	if pages == nil {
		pages = []models.Page{}
	}

	now := s.now()
	nb := models.Notebook{Id: id, Name: name, Pages: pages, CreatedAt: now, UpdatedAt: now}

	notebooks := s.Local.LoadNotebooks(ctx, userId)
	notebooks = append([]models.Notebook{nb}, notebooks...)
	if err := s.Local.SaveNotebooks(ctx, userId, notebooks); err != nil {
		return models.Notebook{}, err
	}
	return nb, nil
}

// EnsureNotebook gives a user without notebooks a first one. Notes kept by the
// first version of the app become its pages; the legacy key stays in place.
func (s *Service) EnsureNotebook(ctx context.Context, userId string) (models.Notebook, bool, error) {
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Notebook{}, false, err
	}
	defer unlock()

	if notebooks := s.Local.LoadNotebooks(ctx, userId); len(notebooks) > 0 {
		return notebooks[0], false, nil
	}

	pages, err := pagesFromLegacyNotes(s.Local.LoadLegacyNotes(ctx, userId), s.now())
	if err != nil {
		return models.Notebook{}, false, err
	}
	nb, err := s.createNotebook(ctx, userId, defaultNotebookName, pages)
	if err != nil {
		return models.Notebook{}, false, err
	}
	return nb, true, nil
}

func pagesFromLegacyNotes(notes []models.LegacyNote, now time.Time) ([]models.Page, error) {
	pages := make([]models.Page, 0, len(notes))
	for i, note := range notes {
		id := note.Id
		if id == "" || slices.ContainsFunc(pages, func(p models.Page) bool { return p.Id == id }) {
			var err error
			if id, err = newId(); err != nil {
				return nil, err
			}
		}

		name, err := normalizeName(note.Title, defaultPageName)
		if err != nil {
			name = defaultPageName
		}

		createdAt := note.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		updatedAt := models.Touch(createdAt, note.UpdatedAt)

		pages = append(pages, models.Page{
			Id:        id,
			Name:      name,
			Content:   note.Content,
			Order:     i,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}
	return pages, nil
}

func (s *Service) RenameNotebook(ctx context.Context, userId, id, name string) (models.Notebook, error) {
	name, err := normalizeName(name, defaultNotebookName)
	if err != nil {
		return models.Notebook{}, err
	}
	return s.updateNotebook(ctx, userId, id, func(nb *models.Notebook, now time.Time) error {
		nb.Name = name
		return nil
	})
}

// DeleteNotebook removes the notebook and its pages. Projects keep their
// references, which then resolve as stale.
func (s *Service) DeleteNotebook(ctx context.Context, userId, id string) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	notebooks, ok := models.DeleteNotebook(s.Local.LoadNotebooks(ctx, userId), id)
	if !ok {
		return fmt.Errorf("notebook %s: %w", id, ErrNotFound)
	}
	return s.Local.SaveNotebooks(ctx, userId, notebooks)
}

// updateNotebook applies fn to a copy of the notebook and saves it, refreshing
// UpdatedAt.
func (s *Service) updateNotebook(ctx context.Context, userId, id string, fn func(nb *models.Notebook, now time.Time) error) (models.Notebook, error) {
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Notebook{}, err
	}
	defer unlock()

	notebooks := s.Local.LoadNotebooks(ctx, userId)
	nb, ok := models.FindByID(notebooks, id)
	if !ok {
		return models.Notebook{}, fmt.Errorf("notebook %s: %w", id, ErrNotFound)
	}

	now := s.now()
	nb.Pages = slices.Clone(nb.Pages)
	if err := fn(&nb, now); err != nil {
		return models.Notebook{}, err
	}
	nb.UpdatedAt = models.Touch(nb.CreatedAt, now)

	notebooks, _ = models.ReplaceByID(notebooks, nb)
	if err := s.Local.SaveNotebooks(ctx, userId, notebooks); err != nil {
		return models.Notebook{}, err
	}
	return nb, nil
}

// AddPage appends a page after the notebook's last one.
func (s *Service) AddPage(ctx context.Context, userId, notebookID, name string) (models.Page, error) {
	name, err := normalizeName(name, defaultPageName)
	if err != nil {
		return models.Page{}, err
	}
	id, err := newId()
	if err != nil {
		return models.Page{}, err
	}

	var page models.Page
	_, err = s.updateNotebook(ctx, userId, notebookID, func(nb *models.Notebook, now time.Time) error {
		page = models.Page{
			Id:        id,
			Name:      name,
			Content:   "",
			Order:     models.NextPageOrder(nb.Pages),
			CreatedAt: now,
			UpdatedAt: now,
		}
		nb.Pages = append(nb.Pages, page)
		return nil
	})
	return page, err
}

func (s *Service) RenamePage(ctx context.Context, userId, notebookID, pageID, name string) (models.Page, error) {
	name, err := normalizeName(name, defaultPageName)
	if err != nil {
		return models.Page{}, err
	}
	return s.updatePage(ctx, userId, notebookID, pageID, func(p *models.Page) {
		p.Name = name
	})
}

func (s *Service) UpdatePageContent(ctx context.Context, userId, notebookID, pageID, content string) (models.Page, error) {
	if err := ValidatePageContent(content); err != nil {
		return models.Page{}, err
	}
	return s.updatePage(ctx, userId, notebookID, pageID, func(p *models.Page) {
		p.Content = content
	})
}

func (s *Service) updatePage(ctx context.Context, userId, notebookID, pageID string, fn func(p *models.Page)) (models.Page, error) {
	var page models.Page
	_, err := s.updateNotebook(ctx, userId, notebookID, func(nb *models.Notebook, now time.Time) error {
		p, ok := models.FindByID(nb.Pages, pageID)
		if !ok {
			return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		fn(&p)
		p.UpdatedAt = models.Touch(p.CreatedAt, now)
		nb.Pages, _ = models.ReplaceByID(nb.Pages, p)
		page = p
		return nil
	})
	return page, err
}

func (s *Service) DeletePage(ctx context.Context, userId, notebookID, pageID string) error {
	_, err := s.updateNotebook(ctx, userId, notebookID, func(nb *models.Notebook, now time.Time) error {
		pages, ok := models.RemoveByID(nb.Pages, pageID)
		if !ok {
			return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
		}
		nb.Pages = pages
		return nil
	})
	return err
}
