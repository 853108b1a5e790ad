package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/lacquer/internal/model"
)

// ownedNote restricts a note query to notes linked from the user's tasks.
const ownedNote = `task_note_id IN (
	SELECT t.task_note_id FROM tasks t
	JOIN projects p ON p.project_id = t.project_id
	WHERE p.user_id = ? AND t.task_note_id IS NOT NULL
)`

// GetNote retrieves the note linked from the user's task.
func (s *SQLStore) GetNote(ctx context.Context, userID, taskID string) (*model.TaskNote, error) {
	var note model.TaskNote
	err := s.db.GetContext(ctx, &note, s.q(`
		SELECT n.task_note_id, n.task_note_content, n.updated_at
		FROM task_notes n
		JOIN tasks t ON t.task_note_id = n.task_note_id
		JOIN projects p ON p.project_id = t.project_id
		WHERE t.task_id = ? AND p.user_id = ?`),
		taskID, userID)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting note of task %s: %w", taskID, err)
	}
	return &note, nil
}

// CreateNoteForTask inserts note and links it from the task in one
// transaction. The link is only set when the task has no note yet;
// otherwise nothing is written and ErrConflict is returned.
func (s *SQLStore) CreateNoteForTask(ctx context.Context, userID, taskID string, note *model.TaskNote) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing sql.NullString
	err = tx.GetContext(ctx, &existing, s.q(`
		SELECT t.task_note_id FROM tasks t
		JOIN projects p ON p.project_id = t.project_id
		WHERE t.task_id = ? AND p.user_id = ?`),
		taskID, userID)
	if isNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting task %s: %w", taskID, err)
	}
	if existing.Valid {
		return fmt.Errorf("creating note for task %s: %w", taskID, ErrConflict)
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO task_notes (task_note_id, task_note_content, updated_at)
		VALUES (?, ?, ?)`),
		note.ID, note.Content, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating note: %w", err)
	}

	result, err := tx.ExecContext(ctx, s.q(
		"UPDATE tasks SET task_note_id = ? WHERE task_id = ? AND task_note_id IS NULL"),
		note.ID, taskID)
	if err != nil {
		return fmt.Errorf("linking note to task %s: %w", taskID, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("linking note to task %s: %w", taskID, ErrConflict)
	}

	return tx.Commit()
}

// UpdateNote replaces a note's content and timestamp in place.
func (s *SQLStore) UpdateNote(ctx context.Context, userID string, note *model.TaskNote) error {
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE task_notes SET task_note_content = ?, updated_at = ?
		WHERE task_note_id = ? AND `+ownedNote),
		note.Content, note.UpdatedAt, note.ID, userID)
	if err != nil {
		return fmt.Errorf("updating note %s: %w", note.ID, err)
	}
	return requireAffected(result)
}

// DeleteOrphanNotes deletes the listed notes that no task links to and
// returns how many were removed.
func (s *SQLStore) DeleteOrphanNotes(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM task_notes
		WHERE task_note_id IN (?)
			AND NOT EXISTS (
				SELECT 1 FROM tasks WHERE tasks.task_note_id = task_notes.task_note_id
			)`, ids)
	if err != nil {
		return 0, fmt.Errorf("building orphan note delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting orphan notes: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
