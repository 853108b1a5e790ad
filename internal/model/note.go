package model

import "time"

// TaskNote is the free-text note linked 1:1 from a task.
type TaskNote struct {
	ID        string    `json:"task_note_id" db:"task_note_id"`
	Content   string    `json:"task_note_content" db:"task_note_content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
