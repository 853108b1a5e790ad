package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Description }

// ItemDelegate implements list.ItemDelegate for rendering tasks.
type ItemDelegate struct {
	// position is the user's current position, used to show distances.
	position *geo.Coordinate
}

// Height returns the number of lines each item takes.
func (d *ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d *ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d *ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d *ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	prefix := "○"
	if t.IsCompleted {
		prefix = "✓"
	}

	parts := []string{prefix}
	if t.Priority != model.PriorityNone {
		parts = append(parts, theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority)))
	}
	parts = append(parts, t.Description)
	parts = append(parts, theme.ProjectBadgeStyle.Render("#"+t.Project.Name))
	if t.Location != nil {
		loc := "@" + t.Location.Name
		if d.position != nil {
			loc += " (" + formatDistance(geo.Distance(*d.position, t.Location.Coordinate())) + ")"
		}
		parts = append(parts, theme.LocationBadgeStyle.Render(loc))
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("Jan 02")
		if !t.IsCompleted && isOverdue(*t.DueDate, time.Now()) {
			parts = append(parts, theme.OverdueStyle.Render(due+" OVERDUE"))
		} else {
			parts = append(parts, theme.DueDateStyle.Render(due))
		}
	}
	if t.Note != nil && t.Note.Content != "" {
		parts = append(parts, theme.HintStyle.Render("✎"))
	}

	line := strings.Join(parts, " ")
	if t.IsCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// isOverdue reports whether a date-only due date is before today.
func isOverdue(due, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, due.Location())
	return due.Before(today)
}

// formatDistance renders meters, switching to kilometers past 1 km.
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	case model.PriorityLow:
		return "!"
	default:
		return ""
	}
}
