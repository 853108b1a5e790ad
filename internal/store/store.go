package store

import (
	"context"
	"time"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
)

// TaskFilter narrows a task listing. The zero value returns every task
// owned by the user.
type TaskFilter struct {
	ProjectID       *string
	LocationID      *string
	WithoutLocation bool
}

// UserRepository persists users mirrored from the auth provider.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	SetAutoLocationFilter(ctx context.Context, userID string, enabled bool) error
}

// ProjectRepository persists projects. Every method is scoped to userID.
type ProjectRepository interface {
	GetProjects(ctx context.Context, userID string) ([]model.Project, error)
	GetProjectsWithTasks(ctx context.Context, userID string) ([]model.Project, error)
	GetProjectByID(ctx context.Context, userID, id string) (*model.Project, error)
	GetProjectByName(ctx context.Context, userID, name string) (*model.Project, error)
	CreateProject(ctx context.Context, project *model.Project) error

	// DeleteProjectCascade removes the project and its tasks atomically and
	// returns the note ids the deleted tasks referenced.
	DeleteProjectCascade(ctx context.Context, userID, id string) ([]string, error)
}

// TaskRepository persists tasks. Ownership is through the task's project.
type TaskRepository interface {
	GetTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)
	GetTaskByID(ctx context.Context, userID, id string) (*model.Task, error)
	CreateTask(ctx context.Context, userID string, task *model.Task) error
	SetTaskDueDate(ctx context.Context, userID, id string, due *time.Time) error
	SetTaskCompletion(ctx context.Context, userID, id string, completed bool) error
	DeleteTask(ctx context.Context, userID, id string) error
}

// LocationRepository persists locations. Every method is scoped to userID.
type LocationRepository interface {
	GetLocations(ctx context.Context, userID string) ([]model.Location, error)
	GetLocationsWithTasks(ctx context.Context, userID string) ([]model.LocationGroup, error)

	// FindLocationNear returns the oldest location within
	// geo.ToleranceDegrees of c on both axes.
	FindLocationNear(ctx context.Context, userID string, c geo.Coordinate) (*model.Location, error)
	CreateLocation(ctx context.Context, location *model.Location) error
}

// NoteRepository persists task notes.
type NoteRepository interface {
	GetNote(ctx context.Context, userID, taskID string) (*model.TaskNote, error)

	// CreateNoteForTask inserts note and links it to the task. It returns
	// ErrConflict when the task already has a note.
	CreateNoteForTask(ctx context.Context, userID, taskID string, note *model.TaskNote) error
	UpdateNote(ctx context.Context, userID string, note *model.TaskNote) error

	// DeleteOrphanNotes removes the given notes that no task references.
	DeleteOrphanNotes(ctx context.Context, ids []string) (int64, error)
}

// ViewRepository persists the tags that version each user's cached list
// views.
type ViewRepository interface {
	GetViewTag(ctx context.Context, userID, view string) (string, error)
	StampViews(ctx context.Context, userID, tag string, views ...string) error
}

// Store defines the persistence interface for users, projects, tasks,
// locations, notes and view versions.
type Store interface {
	// === Users ===

	UserRepository

	// === Projects ===

	ProjectRepository

	// === Tasks ===

	TaskRepository

	// === Locations ===

	LocationRepository

	// === Notes ===

	NoteRepository

	// === Views ===

	ViewRepository

	Close() error
}

var _ Store = (*SQLStore)(nil)
