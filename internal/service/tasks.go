package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// taskViews are the list views that show tasks.
var taskViews = []views.View{views.Tasks, views.Projects, views.Locations}

// CreateTaskInput describes a new task. Only Description is required.
type CreateTaskInput struct {
	Description string
	ProjectID   string
	Location    *LocationInput
	DueDate     *time.Time

	// Priority is dropped unless it names a known level.
	Priority string
}

// ListTasks returns the user's tasks, newest first.
func (s *Service) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.store.GetTasks(ctx, userID, store.TaskFilter{})
	if err != nil {
		return nil, s.fail("listing tasks", err, "user", userID)
	}
	return tasks, nil
}

// GetTask returns one of the user's tasks.
func (s *Service) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.store.GetTaskByID(ctx, userID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Task")
	}
	if err != nil {
		return nil, s.fail("getting task", err, "task", taskID)
	}
	return task, nil
}

// CreateTask creates a task. Without a project it lands in the user's
// Miscellaneous project, and a location input reuses any stored location
// within tolerance.
func (s *Service) CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*model.Task, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid("Task description is required")
	}

	var project *model.Project
	var err error
	if projectID := strings.TrimSpace(in.ProjectID); projectID != "" {
		project, err = s.store.GetProjectByID(ctx, userID, projectID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Specified project")
		}
		if err != nil {
			return nil, s.fail("creating task", err, "project", projectID)
		}
	} else {
		project, err = s.EnsureMiscellaneousProject(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		Description: description,
		ProjectID:   project.ID,
		DueDate:     s.dateOnly(in.DueDate),
	}
	if p, ok := model.ParsePriority(in.Priority); ok {
		task.Priority = p
	}

	if in.Location != nil {
		location, _, err := s.ensureLocation(ctx, userID, *in.Location)
		if err != nil {
			return nil, err
		}
		task.LocationID = &location.ID
	}

	err = s.store.CreateTask(ctx, userID, task)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Specified project")
	}
	if err != nil {
		return nil, s.fail("creating task", err, "user", userID)
	}

	s.invalidate(ctx, userID, taskViews...)

	created, err := s.store.GetTaskByID(ctx, userID, task.ID)
	if err != nil {
		return nil, s.fail("reading created task", err, "task", task.ID)
	}
	return created, nil
}

// UpdateTaskDueDate sets the task's due date, or clears it when due is nil.
func (s *Service) UpdateTaskDueDate(ctx context.Context, userID, taskID string, due *time.Time) error {
	err := s.store.SetTaskDueDate(ctx, userID, taskID, s.dateOnly(due))
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Task")
	}
	if err != nil {
		return s.fail("updating task due date", err, "task", taskID)
	}
	s.invalidate(ctx, userID, taskViews...)
	return nil
}

// UpdateTaskCompletion marks the task completed or not.
func (s *Service) UpdateTaskCompletion(ctx context.Context, userID, taskID string, completed bool) error {
	err := s.store.SetTaskCompletion(ctx, userID, taskID, completed)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Task")
	}
	if err != nil {
		return s.fail("updating task completion", err, "task", taskID)
	}
	s.invalidate(ctx, userID, taskViews...)
	return nil
}

// DeleteTask deletes the task and, best effort, its note.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	err = s.store.DeleteTask(ctx, userID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("Task")
	}
	if err != nil {
		return s.fail("deleting task", err, "task", taskID)
	}

	if task.NoteID != nil {
		s.cleanupNotes(ctx, []string{*task.NoteID})
	}
	s.invalidate(ctx, userID, taskViews...)
	return nil
}

// UpsertTaskNote stores content as the task's note. The first call creates
// and links the note; later calls update it in place.
func (s *Service) UpsertTaskNote(ctx context.Context, userID, taskID, content string) (*model.TaskNote, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	note := &model.TaskNote{Content: content, UpdatedAt: s.now().UTC()}

	if task.NoteID == nil {
		err = s.store.CreateNoteForTask(ctx, userID, taskID, note)
		switch {
		case err == nil:
			s.invalidate(ctx, userID, taskViews...)
			return note, nil
		case errors.Is(err, store.ErrNotFound):
			return nil, notFound("Task")
		case !errors.Is(err, store.ErrConflict):
			return nil, s.fail("creating task note", err, "task", taskID)
		}

		// Another request linked a note first; update that one instead.
		existing, err := s.store.GetNote(ctx, userID, taskID)
		if err != nil {
			return nil, s.fail("creating task note", err, "task", taskID)
		}
		note.ID = existing.ID
	} else {
		note.ID = *task.NoteID
	}

	err = s.store.UpdateNote(ctx, userID, note)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Task")
	}
	if err != nil {
		return nil, s.fail("updating task note", err, "task", taskID)
	}

	s.invalidate(ctx, userID, taskViews...)
	return note, nil
}
