package tasklist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/keys"
	"github.com/nhle/lacquer/internal/listing"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/theme"
)

// Source loads the signed-in user's tasks.
type Source interface {
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
}

// TasksLoadedMsg is sent when tasks have been loaded.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// Model is the main task list view component.
type Model struct {
	list     list.Model
	delegate *ItemDelegate
	source   Source
	userID   string
	keys     *keys.KeyMap
	state    listing.State
	tasks    []model.Task
	result   listing.Result
	width    int
	height   int
}

// New creates a new task list model starting from the given view state.
func New(src Source, userID string, k *keys.KeyMap, st listing.State, width, height int) Model {
	delegate := &ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.Unbind()

	return Model{
		list:     l,
		delegate: delegate,
		source:   src,
		userID:   userID,
		keys:     k,
		state:    st,
		width:    width,
		height:   height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.tasks = msg.Tasks
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FilterProject):
		if t, ok := m.SelectedTask(); ok {
			m.state = m.state.ToggleProject(t.ProjectID)
		} else {
			m.state = m.state.ClearFilter()
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.FilterLocation):
		if t, ok := m.SelectedTask(); ok && t.LocationID != nil {
			m.state = m.state.ToggleLocation(*t.LocationID)
		} else if m.state.Filter == listing.FilterLocation {
			m.state = m.state.ClearFilter()
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.Proximity):
		m.state = m.state.ToggleProximity()
		return m, m.refresh()

	case key.Matches(msg, m.keys.ClearFilter):
		m.state = m.state.ClearFilter()
		return m, m.refresh()

	case key.Matches(msg, m.keys.ShowCompleted):
		m.state = m.state.ToggleCompleted()
		return m, m.refresh()

	case key.Matches(msg, m.keys.CycleSort):
		m.state = m.state.CycleSort()
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// refresh re-applies the view state to the loaded tasks, keeping the
// cursor on the same task when it is still listed.
func (m *Model) refresh() tea.Cmd {
	selected, _ := m.SelectedTask()

	m.result = listing.Apply(m.tasks, m.state)
	items := make([]list.Item, len(m.result.Tasks))
	cursor := 0
	for i, t := range m.result.Tasks {
		items[i] = TaskItem{Task: t}
		if t.ID == selected.ID {
			cursor = i
		}
	}

	m.delegate.position = m.state.Position
	cmd := m.list.SetItems(items)
	m.list.Select(cursor)
	return cmd
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// State returns the current filter and sort state.
func (m Model) State() listing.State {
	return m.state
}

// SetPosition updates the current position used by proximity filtering
// and sorting. With autoFilter set and no filter active, a known position
// switches the nearby filter on.
func (m *Model) SetPosition(pos *geo.Coordinate, autoFilter bool) tea.Cmd {
	m.state.Position = pos
	if autoFilter && pos != nil && m.state.Filter == listing.FilterNone {
		m.state = m.state.ToggleProximity()
	}
	return m.refresh()
}

// FilterSummary describes the active filter, or "" when none is applied.
func (m Model) FilterSummary() string {
	switch m.state.Filter {
	case listing.FilterProject:
		return "project: " + m.projectName(m.state.Value)
	case listing.FilterLocation:
		return "location: " + m.locationName(m.state.Value)
	case listing.FilterProximity:
		return "nearby"
	default:
		return ""
	}
}

func (m Model) projectName(id string) string {
	for _, t := range m.tasks {
		if t.ProjectID == id {
			return t.Project.Name
		}
	}
	return id
}

func (m Model) locationName(id string) string {
	for _, t := range m.tasks {
		if t.Location != nil && t.Location.ID == id {
			return t.Location.Name
		}
	}
	return id
}

// View renders the task list view.
func (m Model) View() string {
	summary := m.result.Summary() + "  ·  sort: " + m.state.Sort.Label()
	if f := m.FilterSummary(); f != "" {
		summary += "  ·  " + f
	}
	if m.state.ShowCompleted {
		summary += "  ·  showing completed"
	}
	top := theme.HintStyle.Padding(0, 1).Render(summary)

	if len(m.result.Tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, top, m.renderEmptyState())
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, "", m.list.View())
}

// renderEmptyState shows guidance text when no tasks are listed.
func (m Model) renderEmptyState() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(m.result.EmptyMessage())
}

// LoadTasks returns a tea.Cmd that fetches the user's tasks.
func (m Model) LoadTasks() tea.Cmd {
	src, userID := m.source, m.userID
	return func() tea.Msg {
		tasks, err := src.ListTasks(context.Background(), userID)
		if err != nil {
			return TasksLoadedMsg{Err: fmt.Errorf("loading tasks: %w", err)}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
