package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/geocode"
	"github.com/nhle/lacquer/internal/keys"
	"github.com/nhle/lacquer/internal/listing"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/ui"
	"github.com/nhle/lacquer/internal/ui/editform"
	helpview "github.com/nhle/lacquer/internal/ui/help"
	"github.com/nhle/lacquer/internal/ui/projectmgr"
	"github.com/nhle/lacquer/internal/ui/taskform"
	"github.com/nhle/lacquer/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewTaskCreate
	ViewTaskEdit
	ViewProjectList
)

// Geocoder resolves typed addresses and positions.
type Geocoder interface {
	Forward(ctx context.Context, address string) ([]geocode.Place, error)
	ReverseOrCoordinates(ctx context.Context, c geo.Coordinate) string
}

// Locator estimates the current position.
type Locator interface {
	Locate(ctx context.Context) (geo.Coordinate, error)
}

// Options configures the root model. Geocoder, Locator and Position are
// optional.
type Options struct {
	Service      *service.Service
	UserID       string
	Username     string
	AutoLocation bool
	Position     *geo.Coordinate
	Geocoder     Geocoder
	Locator      Locator
}

// Model is the root Bubble Tea model that manages view routing and layout
// for the signed-in user.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	svc          *service.Service
	userID       string
	username     string
	geocoder     Geocoder
	locator      Locator
	position     *geo.Coordinate
	autoLocation bool
	keys         *keys.KeyMap
	taskList     tasklist.Model
	helpView     helpview.Model
	taskForm     taskform.Model
	editForm     editform.Model
	projectView  projectmgr.Model
	notice       string
	noticeErr    bool
	ready        bool
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	st := listing.Initial(opts.AutoLocation, opts.Position)

	return Model{
		currentView:  ViewList,
		svc:          opts.Service,
		userID:       opts.UserID,
		username:     opts.Username,
		geocoder:     opts.Geocoder,
		locator:      opts.Locator,
		position:     opts.Position,
		autoLocation: opts.AutoLocation,
		keys:         k,
		taskList:     tasklist.New(opts.Service, opts.UserID, k, st, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		taskForm:     taskform.New(80, 24),
		editForm:     editform.New(80, 24),
		projectView:  projectmgr.New(opts.Service, opts.UserID, k, 80, 24),
	}
}

// Init loads the task list and, when no position was given, asks the
// locator for one.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.taskList.Init()}
	if m.position == nil {
		cmds = append(cmds, m.locate())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.editForm.SetSize(w, h)
		m.projectView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case positionMsg:
		if msg.err != nil {
			m.setNotice("Location unavailable: "+msg.err.Error(), true)
			return m, nil
		}
		m.position = &msg.position
		return m, m.taskList.SetPosition(m.position, m.autoLocation)

	case tasklist.TasksLoadedMsg:
		if msg.Err != nil {
			m.setNotice(msg.Err.Error(), true)
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case taskChangedMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else if msg.notice != "" {
			m.setNotice(msg.notice, false)
		}
		return m, m.taskList.LoadTasks()

	case formOptionsMsg:
		if msg.err != nil {
			m.currentView = ViewList
			m.setNotice(msg.err.Error(), true)
			return m, nil
		}
		m.taskForm.SetOptions(msg.projects, m.position != nil)
		return m, m.taskForm.Start()

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		m.setNotice("Saving task...", false)
		return m, m.createTask(msg)

	case taskform.CancelMsg, editform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case editform.DueDateMsg:
		m.currentView = ViewList
		return m, m.updateDueDate(msg)

	case editform.NoteMsg:
		m.currentView = ViewList
		return m, m.saveNote(msg)

	case projectmgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case projectmgr.ChangedMsg:
		return m, m.taskList.LoadTasks()

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that are not routed to a sub-view. Forms
// get every key except ctrl+c.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, true
	case ViewList:
	default:
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, tea.Batch(m.taskList.LoadTasks(), m.locate()), true

	case key.Matches(msg, m.keys.New):
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		return m, m.loadFormOptions(), true

	case key.Matches(msg, m.keys.Projects):
		m.previousView = m.currentView
		m.currentView = ViewProjectList
		return m, m.projectView.Init(), true
	}

	t, ok := m.taskList.SelectedTask()
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.ToggleDone):
		return m, m.toggleCompletion(t), true

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteTask(t), true

	case key.Matches(msg, m.keys.DueDate):
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.editForm.Start(t, editform.FieldDueDate), true

	case key.Matches(msg, m.keys.Note):
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.editForm.Start(t, editform.FieldNote), true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTaskCreate:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewTaskEdit:
		m.editForm, cmd = m.editForm.Update(msg)
	case ViewProjectList:
		m.projectView, cmd = m.projectView.Update(msg)
	}

	return m, cmd
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice, m.noticeErr = text, isError
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Lacquer"
	if m.username != "" {
		title += " · " + m.username
	}
	header := m.layout.RenderHeader(title, m.positionStatus())
	notice := m.layout.RenderNotice(m.notice, m.noticeErr)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), notice, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTaskCreate:
		return m.taskForm.View()
	case ViewTaskEdit:
		return m.editForm.View()
	case ViewProjectList:
		return m.projectView.View()
	default:
		return ""
	}
}

func (m Model) positionStatus() string {
	if m.position == nil {
		return "location unknown"
	}
	return "near " + m.position.String()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewProjectList:
		return "n new | d delete | esc back"
	default:
		if m.taskList.State().Active() {
			return "0 clear filter | tab sort | ? help"
		}
		return "q quit | ? help | n new | x done | 1 project | 2 location | 3 nearby | tab sort"
	}
}
