package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SunnySoftwareTech/Drafty/models"
)

func (s *Service) ListProjects(ctx context.Context, userId string) []models.Project {
	return s.Local.LoadProjects(ctx, userId)
}

func (s *Service) CreateProject(ctx context.Context, userId, name string) (models.Project, error) {
	name, err := normalizeName(name, defaultProjectName)
	if err != nil {
		return models.Project{}, err
	}
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Project{}, err
	}
	defer unlock()

	id, err := newId()
	if err != nil {
		return models.Project{}, err
	}
	now := s.now()
	p := models.Project{Id: id, Name: name, Items: []models.ProjectItem{}, CreatedAt: now, UpdatedAt: now}

	projects := append([]models.Project{p}, s.Local.LoadProjects(ctx, userId)...)
	if err := s.Local.SaveProjects(ctx, userId, projects); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Service) RenameProject(ctx context.Context, userId, id, name string) (models.Project, error) {
	name, err := normalizeName(name, defaultProjectName)
	if err != nil {
		return models.Project{}, err
	}
	return s.updateProject(ctx, userId, id, func(p *models.Project, now time.Time) (bool, error) {
		p.Name = name
		return true, nil
	})
}

func (s *Service) DeleteProject(ctx context.Context, userId, id string) error {
	unlock, err := s.begin(userId)
	if err != nil {
		return err
	}
	defer unlock()

	projects, ok := models.RemoveByID(s.Local.LoadProjects(ctx, userId), id)
	if !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return s.Local.SaveProjects(ctx, userId, projects)
}

// AddProjectItem links an existing notebook, page or flashcard to the project.
// Adding a reference that is already there changes nothing.
func (s *Service) AddProjectItem(ctx context.Context, userId, projectID string, item models.ProjectItem) (models.Project, error) {
	if !item.Kind.Valid() {
		return models.Project{}, &models.InvalidEntityError{Reason: fmt.Sprintf("unknown item kind %q", item.Kind)}
	}
	return s.updateProject(ctx, userId, projectID, func(p *models.Project, now time.Time) (bool, error) {
		if !s.itemExists(ctx, userId, item) {
			return false, fmt.Errorf("%s %s: %w", item.Kind, item.Id, ErrNotFound)
		}
		items, added := models.AddItem(p.Items, item)
		p.Items = items
		return added, nil
	})
}

func (s *Service) RemoveProjectItem(ctx context.Context, userId, projectID string, item models.ProjectItem) (models.Project, error) {
	return s.updateProject(ctx, userId, projectID, func(p *models.Project, now time.Time) (bool, error) {
		items, removed := models.RemoveItem(p.Items, item)
		if !removed {
			return false, fmt.Errorf("project item %s %s: %w", item.Kind, item.Id, ErrNotFound)
		}
		p.Items = items
		return true, nil
	})
}

// ResolveProject splits the project's items into live and stale references.
func (s *Service) ResolveProject(ctx context.Context, userId, projectID string) (models.Project, []models.ProjectItem, []models.ProjectItem, error) {
	p, ok := models.FindByID(s.Local.LoadProjects(ctx, userId), projectID)
	if !ok {
		return models.Project{}, nil, nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	live, stale := models.ResolveItems(p, s.Local.LoadNotebooks(ctx, userId), s.Local.LoadFlashcards(ctx, userId))
	return p, live, stale, nil
}

func (s *Service) itemExists(ctx context.Context, userId string, item models.ProjectItem) bool {
	switch item.Kind {
	case models.KindNotebook:
		_, ok := models.FindByID(s.Local.LoadNotebooks(ctx, userId), item.Id)
		return ok
	case models.KindPage:
		_, _, ok := models.FindPage(s.Local.LoadNotebooks(ctx, userId), item.Id)
		return ok
	case models.KindFlashcard:
		_, ok := models.FindByID(s.Local.LoadFlashcards(ctx, userId), item.Id)
		return ok
	}
	return false
}

// updateProject saves the project when fn reports a change.
func (s *Service) updateProject(ctx context.Context, userId, id string, fn func(p *models.Project, now time.Time) (bool, error)) (models.Project, error) {
	unlock, err := s.begin(userId)
	if err != nil {
		return models.Project{}, err
	}
	defer unlock()

	projects := s.Local.LoadProjects(ctx, userId)
	p, ok := models.FindByID(projects, id)
	if !ok {
		return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	now := s.now()
	changed, err := fn(&p, now)
	if err != nil {
		return models.Project{}, err
	}
	if !changed {
		return p, nil
	}
	p.UpdatedAt = models.Touch(p.CreatedAt, now)

	projects, _ = models.ReplaceByID(projects, p)
	if err := s.Local.SaveProjects(ctx, userId, projects); err != nil {
		return models.Project{}, err
	}
	return p, nil
}
