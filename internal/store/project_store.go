package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/lacquer/internal/model"
)

const projectColumns = "project_id, user_id, project_name, project_description, created_at"

// GetProjects retrieves the user's projects ordered by name.
func (s *SQLStore) GetProjects(ctx context.Context, userID string) ([]model.Project, error) {
	projects := []model.Project{}
	err := s.db.SelectContext(ctx, &projects, s.q(
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY project_name"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	return projects, nil
}

// GetProjectsWithTasks retrieves the user's projects with their tasks
// attached, newest task first.
func (s *SQLStore) GetProjectsWithTasks(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.GetProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.GetTasks(ctx, userID, TaskFilter{})
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]model.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	for i := range projects {
		projects[i].Tasks = byProject[projects[i].ID]
		if projects[i].Tasks == nil {
			projects[i].Tasks = []model.Task{}
		}
	}
	return projects, nil
}

// GetProjectByID retrieves a single project owned by the user.
func (s *SQLStore) GetProjectByID(ctx context.Context, userID, id string) (*model.Project, error) {
	var project model.Project
	err := s.db.GetContext(ctx, &project, s.q(
		"SELECT "+projectColumns+" FROM projects WHERE project_id = ? AND user_id = ?"),
		id, userID)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &project, nil
}

// GetProjectByName retrieves the user's project with the exact name.
func (s *SQLStore) GetProjectByName(ctx context.Context, userID, name string) (*model.Project, error) {
	var project model.Project
	err := s.db.GetContext(ctx, &project, s.q(
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? AND project_name = ?"),
		userID, name)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %q: %w", name, err)
	}
	return &project, nil
}

// CreateProject inserts a new project. A duplicate name for the same user
// yields ErrConflict.
func (s *SQLStore) CreateProject(ctx context.Context, project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO projects (project_id, user_id, project_name, project_description, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		project.ID, project.UserID, project.Name, project.Description, project.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("creating project %q: %w", project.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating project %q: %w", project.Name, err)
	}
	return nil
}

// DeleteProjectCascade removes a project and its tasks in one transaction
// and returns the ids of notes those tasks referenced.
func (s *SQLStore) DeleteProjectCascade(ctx context.Context, userID, id string) ([]string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	noteIDs := []string{}
	err = tx.SelectContext(ctx, &noteIDs, s.q(`
		SELECT t.task_note_id FROM tasks t
		JOIN projects p ON p.project_id = t.project_id
		WHERE p.project_id = ? AND p.user_id = ? AND t.task_note_id IS NOT NULL`),
		id, userID)
	if err != nil {
		return nil, fmt.Errorf("collecting notes of project %s: %w", id, err)
	}

	_, err = tx.ExecContext(ctx, s.q(`
		DELETE FROM tasks WHERE project_id IN (
			SELECT project_id FROM projects WHERE project_id = ? AND user_id = ?
		)`), id, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting tasks of project %s: %w", id, err)
	}

	result, err := tx.ExecContext(ctx,
		s.q("DELETE FROM projects WHERE project_id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting project %s: %w", id, err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing project delete: %w", err)
	}
	return noteIDs, nil
}
