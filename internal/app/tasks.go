package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/geocode"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/ui/editform"
	"github.com/nhle/lacquer/internal/ui/taskform"
)

// errNoGeocoder is reported when an address is typed but no geocoding
// provider is configured.
var errNoGeocoder = errors.New("address lookup is not configured; set geocoding.api_key")

// taskChangedMsg is sent after any task mutation.
type taskChangedMsg struct {
	notice string
	err    error
}

// formOptionsMsg carries the projects offered by the new task form.
type formOptionsMsg struct {
	projects []model.Project
	err      error
}

// positionMsg carries the result of a position lookup.
type positionMsg struct {
	position geo.Coordinate
	err      error
}

func (m Model) loadFormOptions() tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		projects, err := svc.ListProjects(context.Background(), userID)
		return formOptionsMsg{projects: projects, err: err}
	}
}

// locate asks the locator for the current position.
func (m Model) locate() tea.Cmd {
	if m.locator == nil {
		return nil
	}
	loc := m.locator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), geocode.LocateTimeout)
		defer cancel()
		pos, err := loc.Locate(ctx)
		return positionMsg{position: pos, err: err}
	}
}

// createTask resolves the form's location and creates the task.
func (m Model) createTask(msg taskform.SubmittedMsg) tea.Cmd {
	svc, userID := m.svc, m.userID
	geocoder, pos := m.geocoder, m.position
	return func() tea.Msg {
		ctx := context.Background()
		due, err := svc.ParseDueDate(msg.DueDate)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		in := service.CreateTaskInput{
			Description: msg.Description,
			ProjectID:   msg.ProjectID,
			DueDate:     due,
			Priority:    msg.Priority,
		}

		switch {
		case msg.UseCurrentPosition && pos != nil:
			address := geo.FormatCoordinate(*pos)
			if geocoder != nil {
				address = geocoder.ReverseOrCoordinates(ctx, *pos)
			}
			in.Location = &service.LocationInput{Address: address, Lat: pos.Lat, Lng: pos.Lng}

		case msg.Address != "":
			if geocoder == nil {
				return taskChangedMsg{err: errNoGeocoder}
			}
			places, err := geocoder.Forward(ctx, msg.Address)
			if err != nil {
				return taskChangedMsg{err: fmt.Errorf("looking up %q: %w", msg.Address, err)}
			}
			if len(places) == 0 {
				return taskChangedMsg{err: fmt.Errorf("no place found for %q", msg.Address)}
			}
			p := places[0]
			in.Location = &service.LocationInput{Address: p.Address, Lat: p.Lat, Lng: p.Lng}
		}

		task, err := svc.CreateTask(ctx, userID, in)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{notice: fmt.Sprintf("Created %q in %s", task.Description, task.Project.Name)}
	}
}

func (m Model) toggleCompletion(t model.Task) tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		err := svc.UpdateTaskCompletion(context.Background(), userID, t.ID, !t.IsCompleted)
		return taskChangedMsg{err: err}
	}
}

func (m Model) deleteTask(t model.Task) tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		if err := svc.DeleteTask(context.Background(), userID, t.ID); err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{notice: fmt.Sprintf("Deleted %q", t.Description)}
	}
}

func (m Model) updateDueDate(msg editform.DueDateMsg) tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		due, err := svc.ParseDueDate(msg.DueDate)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		if err := svc.UpdateTaskDueDate(context.Background(), userID, msg.TaskID, due); err != nil {
			return taskChangedMsg{err: err}
		}
		if due == nil {
			return taskChangedMsg{notice: "Due date cleared"}
		}
		return taskChangedMsg{notice: "Due " + due.Format(time.DateOnly)}
	}
}

func (m Model) saveNote(msg editform.NoteMsg) tea.Cmd {
	svc, userID := m.svc, m.userID
	return func() tea.Msg {
		_, err := svc.UpsertTaskNote(context.Background(), userID, msg.TaskID, msg.Content)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{notice: "Note saved"}
	}
}
