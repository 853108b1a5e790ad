package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/lacquer/internal/model"
)

// taskRow is one row of taskSelect: the task joined with its project,
// location and note projections.
type taskRow struct {
	ID          string          `db:"task_id"`
	Description string          `db:"task_description"`
	ProjectID   string          `db:"project_id"`
	LocationID  sql.NullString  `db:"location_id"`
	DueDate     nullDate        `db:"due_date"`
	Priority    sql.NullString  `db:"priority_level"`
	IsCompleted bool            `db:"is_completed"`
	NoteID      sql.NullString  `db:"task_note_id"`
	CreatedAt   time.Time       `db:"created_at"`
	ProjectName string          `db:"project_name"`
	LocName     sql.NullString  `db:"location_name"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	NoteContent sql.NullString  `db:"task_note_content"`
	NoteUpdated sql.NullTime    `db:"note_updated_at"`
}

func (r taskRow) toModel() model.Task {
	t := model.Task{
		ID:          r.ID,
		Description: r.Description,
		ProjectID:   r.ProjectID,
		DueDate:     r.DueDate.Ptr(),
		Priority:    model.Priority(r.Priority.String),
		IsCompleted: r.IsCompleted,
		CreatedAt:   r.CreatedAt,
		Project:     model.ProjectRef{ID: r.ProjectID, Name: r.ProjectName},
	}
	if r.LocationID.Valid {
		id := r.LocationID.String
		t.LocationID = &id
		t.Location = &model.LocationRef{
			ID:        id,
			Name:      r.LocName.String,
			Latitude:  r.Latitude.Float64,
			Longitude: r.Longitude.Float64,
		}
	}
	if r.NoteID.Valid {
		id := r.NoteID.String
		t.NoteID = &id
		t.Note = &model.TaskNote{
			ID:        id,
			Content:   r.NoteContent.String,
			UpdatedAt: r.NoteUpdated.Time,
		}
	}
	return t
}

const taskSelect = `
	SELECT t.task_id, t.task_description, t.project_id, t.location_id,
		t.due_date, t.priority_level, t.is_completed, t.task_note_id, t.created_at,
		p.project_name,
		l.location_name, l.latitude, l.longitude,
		n.task_note_content, n.updated_at AS note_updated_at
	FROM tasks t
	JOIN projects p ON p.project_id = t.project_id
	LEFT JOIN locations l ON l.location_id = t.location_id
	LEFT JOIN task_notes n ON n.task_note_id = t.task_note_id`

// ownedTask restricts an UPDATE or DELETE on tasks to the user's projects.
const ownedTask = "task_id = ? AND project_id IN (SELECT project_id FROM projects WHERE user_id = ?)"

func (s *SQLStore) selectTasks(ctx context.Context, where string, args ...any) ([]model.Task, error) {
	var rows []taskRow
	query := taskSelect + " WHERE " + where + " ORDER BY t.created_at DESC, t.task_id"
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toModel())
	}
	return tasks, nil
}

// GetTasks retrieves the user's tasks matching filter, newest first.
func (s *SQLStore) GetTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	conditions := []string{"p.user_id = ?"}
	args := []any{userID}

	if filter.ProjectID != nil {
		conditions = append(conditions, "t.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.LocationID != nil {
		conditions = append(conditions, "t.location_id = ?")
		args = append(args, *filter.LocationID)
	}
	if filter.WithoutLocation {
		conditions = append(conditions, "t.location_id IS NULL")
	}

	tasks, err := s.selectTasks(ctx, strings.Join(conditions, " AND "), args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task owned by the user.
func (s *SQLStore) GetTaskByID(ctx context.Context, userID, id string) (*model.Task, error) {
	tasks, err := s.selectTasks(ctx, "t.task_id = ? AND p.user_id = ?", id, userID)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

// CreateTask inserts a task into one of the user's projects. It returns
// ErrNotFound when the project or location is not owned by the user.
func (s *SQLStore) CreateTask(ctx context.Context, userID string, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	err = tx.GetContext(ctx, &owned, s.q(
		"SELECT COUNT(*) FROM projects WHERE project_id = ? AND user_id = ?"),
		task.ProjectID, userID)
	if err != nil {
		return fmt.Errorf("checking project %s: %w", task.ProjectID, err)
	}
	if owned == 0 {
		return ErrNotFound
	}

	if task.LocationID != nil {
		err = tx.GetContext(ctx, &owned, s.q(
			"SELECT COUNT(*) FROM locations WHERE location_id = ? AND user_id = ?"),
			*task.LocationID, userID)
		if err != nil {
			return fmt.Errorf("checking location %s: %w", *task.LocationID, err)
		}
		if owned == 0 {
			return ErrNotFound
		}
	}

	var priority sql.NullString
	if task.Priority != model.PriorityNone {
		priority = sql.NullString{String: string(task.Priority), Valid: true}
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO tasks (
			task_id, task_description, project_id, location_id,
			due_date, priority_level, is_completed, task_note_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		task.ID, task.Description, task.ProjectID, task.LocationID,
		dateValue(task.DueDate), priority, task.IsCompleted, task.NoteID, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	return tx.Commit()
}

// SetTaskDueDate sets or clears (due == nil) a task's due date.
func (s *SQLStore) SetTaskDueDate(ctx context.Context, userID, id string, due *time.Time) error {
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE tasks SET due_date = ? WHERE "+ownedTask),
		dateValue(due), id, userID)
	if err != nil {
		return fmt.Errorf("updating due date of task %s: %w", id, err)
	}
	return requireAffected(result)
}

// SetTaskCompletion marks a task completed or not.
func (s *SQLStore) SetTaskCompletion(ctx context.Context, userID, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE tasks SET is_completed = ? WHERE "+ownedTask),
		completed, id, userID)
	if err != nil {
		return fmt.Errorf("updating completion of task %s: %w", id, err)
	}
	return requireAffected(result)
}

// DeleteTask removes a task. Its note, if any, is left for DeleteOrphanNotes.
func (s *SQLStore) DeleteTask(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM tasks WHERE "+ownedTask), id, userID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
