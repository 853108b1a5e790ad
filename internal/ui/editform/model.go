// Package editform edits a single field of an existing task.
package editform

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/theme"
)

// Field is the task field being edited.
type Field int

const (
	FieldDueDate Field = iota
	FieldNote
)

// DueDateMsg is dispatched with the new due date as YYYY-MM-DD; "" clears it.
type DueDateMsg struct {
	TaskID  string
	DueDate string
}

// NoteMsg is dispatched with the new note content.
type NoteMsg struct {
	TaskID  string
	Content string
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

type formBindings struct {
	value string
}

// Model is the Bubble Tea model for the single-field edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	field  Field
	task   model.Task
	width  int
	height int
}

// New creates a new edit form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start builds a form editing field of task, prefilled with its value.
func (m *Model) Start(task model.Task, field Field) tea.Cmd {
	m.task = task
	m.field = field

	switch field {
	case FieldDueDate:
		m.fb.value = task.DueDateString()
		m.form = m.newForm(huh.NewInput().
			Title("Due Date").
			Description("Leave empty to clear.").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.value).
			Validate(func(s string) error {
				if _, err := service.ParseDueDate(s, time.Local); err != nil {
					return errors.New("invalid date format, use YYYY-MM-DD")
				}
				return nil
			}))
	case FieldNote:
		m.fb.value = ""
		if task.Note != nil {
			m.fb.value = task.Note.Content
		}
		m.form = m.newForm(huh.NewText().
			Title("Note").
			Placeholder("Anything worth remembering...").
			Value(&m.fb.value))
	}
	return m.form.Init()
}

func (m *Model) newForm(field huh.Field) *huh.Form {
	w := max(40, min(m.width-4, 100))
	return huh.NewForm(huh.NewGroup(field)).WithWidth(w)
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) handleSubmit() tea.Cmd {
	id, value := m.task.ID, m.fb.value
	if m.field == FieldNote {
		return func() tea.Msg { return NoteMsg{TaskID: id, Content: value} }
	}
	return func() tea.Msg { return DueDateMsg{TaskID: id, DueDate: value} }
}

// View renders the form under the task's description.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := theme.TitleStyle.Render(m.task.Description) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
