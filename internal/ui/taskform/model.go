package taskform

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/theme"
)

// SubmittedMsg is dispatched when the new task form is completed. The
// location is still unresolved: either a typed address or a request to
// use the current position.
type SubmittedMsg struct {
	Description        string
	ProjectID          string
	Priority           string
	DueDate            string // YYYY-MM-DD, or "" for none
	Address            string
	UseCurrentPosition bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	description string
	projectID   string
	priority    string
	dueDate     string
	address     string
	useHere     bool
}

// Model is the Bubble Tea model for the new task form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	projects    []model.Project
	hasPosition bool
	width       int
	height      int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetOptions sets the projects offered by the form and whether the
// current position is known.
func (m *Model) SetOptions(projects []model.Project, hasPosition bool) {
	m.projects = projects
	m.hasPosition = hasPosition
}

// Start resets the bindings and builds a fresh form.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
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

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := theme.TitleStyle.Render("New Task") + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Task").
			Placeholder("What needs to be done?").
			Value(&m.fb.description).
			Validate(validateRequired),
		m.projectField(),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("None", ""),
				huh.NewOption("Low", string(model.PriorityLow)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("High", string(model.PriorityHigh)),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Location").
			Placeholder("Address (optional)").
			Value(&m.fb.address),
	}
	if m.hasPosition {
		fields = append(fields,
			huh.NewConfirm().
				Title("Use my current position instead?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.useHere),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) projectField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption(model.MiscellaneousProjectName, ""),
	}
	for _, p := range m.projects {
		if !p.IsMiscellaneous() {
			opts = append(opts, huh.NewOption(p.Name, p.ID))
		}
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID)
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmittedMsg{
		Description:        strings.TrimSpace(m.fb.description),
		ProjectID:          m.fb.projectID,
		Priority:           m.fb.priority,
		Address:            strings.TrimSpace(m.fb.address),
		UseCurrentPosition: m.fb.useHere,
		DueDate:            m.fb.dueDate,
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	return clamp(m.width-4, 40, 100)
}

func (m Model) formHeight() int {
	return clamp(m.height-4, 10, m.height)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Task description is required")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if _, err := service.ParseDueDate(s, time.Local); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
