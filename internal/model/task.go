package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage format for due dates.
const DateLayout = "2006-01-02"

// Task is a single to-do item owned through its project.
type Task struct {
	ID          string `json:"task_id"`
	Description string `json:"task_description"`
	ProjectID   string `json:"project_id"`

	// LocationID is nil for tasks that can be done anywhere.
	LocationID *string `json:"location_id"`

	// DueDate carries date-only semantics: local midnight of the day.
	DueDate *time.Time `json:"due_date"`

	Priority    Priority  `json:"priority_level"`
	IsCompleted bool      `json:"is_completed"`
	NoteID      *string   `json:"task_note_id"`
	CreatedAt   time.Time `json:"created_at"`

	Project  ProjectRef   `json:"project"`
	Location *LocationRef `json:"location"`
	Note     *TaskNote    `json:"task_note"`
}

// DueDateString renders the due date as YYYY-MM-DD, or "" when unset.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// MarshalJSON writes the due date as YYYY-MM-DD.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	var due *string
	if t.DueDate != nil {
		d := t.DueDateString()
		due = &d
	}
	return json.Marshal(struct {
		plain
		DueDate *string `json:"due_date"`
	}{plain(t), due})
}
