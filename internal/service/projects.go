package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// ListProjects returns the user's projects ordered by name.
func (s *Service) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.store.GetProjects(ctx, userID)
	if err != nil {
		return nil, s.fail("listing projects", err, "user", userID)
	}
	return projects, nil
}

// ListProjectsWithTasks returns the user's projects with their tasks.
func (s *Service) ListProjectsWithTasks(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.store.GetProjectsWithTasks(ctx, userID)
	if err != nil {
		return nil, s.fail("listing projects with tasks", err, "user", userID)
	}
	return projects, nil
}

// CreateProject creates a project with a trimmed name. An empty name or a
// name the user already uses is a validation error.
func (s *Service) CreateProject(ctx context.Context, userID, name, description string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Project name is required")
	}

	_, err := s.store.GetProjectByName(ctx, userID, name)
	switch {
	case err == nil:
		return nil, invalid("A project with this name already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, s.fail("creating project", err, "user", userID)
	}

	project := &model.Project{UserID: userID, Name: name}
	if d := strings.TrimSpace(description); d != "" {
		project.Description = &d
	}

	err = s.store.CreateProject(ctx, project)
	if errors.Is(err, store.ErrConflict) {
		return nil, invalid("A project with this name already exists")
	}
	if err != nil {
		return nil, s.fail("creating project", err, "user", userID)
	}

	s.invalidate(ctx, userID, views.Tasks, views.Projects)
	return project, nil
}

// DeleteProject deletes a project and its tasks. The Miscellaneous project
// cannot be deleted. Notes left without a task are removed afterwards on a
// best-effort basis.
func (s *Service) DeleteProject(ctx context.Context, userID, projectID string) error {
	project, err := s.store.GetProjectByID(ctx, userID, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Project")
	}
	if err != nil {
		return s.fail("deleting project", err, "project", projectID)
	}
	if project.IsMiscellaneous() {
		return invalid("The Miscellaneous project cannot be deleted")
	}

	noteIDs, err := s.store.DeleteProjectCascade(ctx, userID, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Project")
	}
	if err != nil {
		return s.fail("deleting project", err, "project", projectID)
	}

	s.cleanupNotes(ctx, noteIDs)
	s.invalidate(ctx, userID, views.Tasks, views.Projects, views.Locations)
	return nil
}

// EnsureMiscellaneousProject returns the user's Miscellaneous project,
// creating it on first use. Concurrent callers converge on the same row
// through the unique (user, name) constraint.
func (s *Service) EnsureMiscellaneousProject(ctx context.Context, userID string) (*model.Project, error) {
	project, err := s.store.GetProjectByName(ctx, userID, model.MiscellaneousProjectName)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, s.fail("ensuring miscellaneous project", err, "user", userID)
	}

	description := model.MiscellaneousProjectDescription
	project = &model.Project{
		UserID:      userID,
		Name:        model.MiscellaneousProjectName,
		Description: &description,
	}
	err = s.store.CreateProject(ctx, project)
	if errors.Is(err, store.ErrConflict) {
		project, err = s.store.GetProjectByName(ctx, userID, model.MiscellaneousProjectName)
	}
	if err != nil {
		return nil, s.fail("ensuring miscellaneous project", err, "user", userID)
	}

	s.invalidate(ctx, userID, views.Projects)
	return project, nil
}

func (s *Service) cleanupNotes(ctx context.Context, noteIDs []string) {
	if len(noteIDs) == 0 {
		return
	}
	n, err := s.store.DeleteOrphanNotes(ctx, noteIDs)
	if err != nil {
		s.logger.Warn("orphan note cleanup failed", "notes", len(noteIDs), "err", err)
		return
	}
	s.logger.Debug("removed orphan notes", "count", n)
}
