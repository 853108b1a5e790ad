package projectmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lacquer/internal/keys"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/theme"
)

// Projects is the subset of the service the project manager needs.
type Projects interface {
	ListProjectsWithTasks(ctx context.Context, userID string) ([]model.Project, error)
	CreateProject(ctx context.Context, userID, name, description string) (*model.Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
}

// CloseMsg signals the parent to close the project view.
type CloseMsg struct{}

// ChangedMsg signals that projects were created or deleted.
type ChangedMsg struct{}

type projectMode int

const (
	modeList projectMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name        string
	description string
	confirm     bool
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type projectSavedMsg struct{ err error }
type projectDeletedMsg struct{ err error }

// Model is the Bubble Tea model for project management.
type Model struct {
	mode        projectMode
	projects    Projects
	userID      string
	keys        *keys.KeyMap
	items       []model.Project
	selectedIdx int
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	statusErr   bool
	width       int
	height      int
}

// New creates a new project manager model.
func New(p Projects, userID string, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:     modeList,
		projects: p,
		userID:   userID,
		keys:     k,
		fb:       &formBindings{},
		width:    width, height: height,
	}
}

// Init loads the user's projects.
func (m Model) Init() tea.Cmd {
	return m.loadProjects()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err)
			return m, nil
		}
		m.items = msg.projects
		if m.selectedIdx >= len(m.items) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.items) - 1
		}
		return m, nil

	case projectSavedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.setStatus(msg.err)
			return m, nil
		}
		m.statusMsg, m.statusErr = "Project created", false
		return m, tea.Batch(m.loadProjects(), func() tea.Msg { return ChangedMsg{} })

	case projectDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.setStatus(msg.err)
			return m, nil
		}
		m.statusMsg, m.statusErr = "Project deleted", false
		return m, tea.Batch(m.loadProjects(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m *Model) setStatus(err error) {
	m.statusMsg, m.statusErr = err.Error(), true
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.items) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.items)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.items) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.items) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.fb.name = ""
		m.fb.description = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.items) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	p := m.items[m.selectedIdx]
	desc := "The project has no tasks."
	if n := len(p.Tasks); n == 1 {
		desc = "Its 1 task will be deleted too."
	} else if n > 1 {
		desc = fmt.Sprintf("Its %d tasks will be deleted too.", n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", p.Name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveProject()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			return m, m.deleteProject(m.items[m.selectedIdx].ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the project manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No projects yet. Press 'n' to create one."))
	} else {
		for i, p := range m.items {
			label := fmt.Sprintf("%s  %s", p.Name, theme.HintStyle.Render(taskCount(p)))
			if p.Description != nil && *p.Description != "" {
				label += "\n    " + theme.HintStyle.Render(*p.Description)
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		style := theme.NoticeStyle
		if m.statusErr {
			style = theme.ErrorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func taskCount(p model.Project) string {
	open := 0
	for _, t := range p.Tasks {
		if !t.IsCompleted {
			open++
		}
	}
	return fmt.Sprintf("%d open / %d total", open, len(p.Tasks))
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) loadProjects() tea.Cmd {
	svc, userID := m.projects, m.userID
	return func() tea.Msg {
		projects, err := svc.ListProjectsWithTasks(context.Background(), userID)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m Model) saveProject() tea.Cmd {
	svc, userID := m.projects, m.userID
	name, description := m.fb.name, m.fb.description
	return func() tea.Msg {
		_, err := svc.CreateProject(context.Background(), userID, name, description)
		return projectSavedMsg{err: err}
	}
}

func (m Model) deleteProject(id string) tea.Cmd {
	svc, userID := m.projects, m.userID
	return func() tea.Msg {
		err := svc.DeleteProject(context.Background(), userID, id)
		return projectDeletedMsg{err: err}
	}
}
