package model

import "time"

// Reserved default project every user owns.
const (
	MiscellaneousProjectName        = "Miscellaneous"
	MiscellaneousProjectDescription = "Default project for one-offs or tasks that don't require a specific project"
)

// Project is a user-owned grouping container for tasks.
type Project struct {
	ID          string    `json:"project_id" db:"project_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"project_name" db:"project_name"`
	Description *string   `json:"project_description" db:"project_description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Tasks is only populated by the "with tasks" listings, which encode
	// it themselves.
	Tasks []Task `json:"-" db:"-"`
}

// IsMiscellaneous reports whether p is the reserved default project.
func (p Project) IsMiscellaneous() bool {
	return p.Name == MiscellaneousProjectName
}

// ProjectRef is the project projection attached to a task.
type ProjectRef struct {
	ID   string `json:"project_id"`
	Name string `json:"project_name"`
}
