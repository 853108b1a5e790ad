package tasklist

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/keys"
	"github.com/nhle/lacquer/internal/listing"
	"github.com/nhle/lacquer/internal/model"
)

type fakeSource struct {
	tasks []model.Task
}

func (f fakeSource) ListTasks(context.Context, string) ([]model.Task, error) {
	return f.tasks, nil
}

func ptr(s string) *string { return &s }

func fixtures() []model.Task {
	office := &model.LocationRef{ID: "loc-office", Name: "Office", Latitude: 40, Longitude: -74}
	return []model.Task{
		{ID: "1", Description: "Buy milk", ProjectID: "p-home", Project: model.ProjectRef{ID: "p-home", Name: "Home"}},
		{ID: "2", Description: "File report", ProjectID: "p-work", Project: model.ProjectRef{ID: "p-work", Name: "Work"},
			LocationID: ptr("loc-office"), Location: office},
		{ID: "3", Description: "Call mom", ProjectID: "p-home", Project: model.ProjectRef{ID: "p-home", Name: "Home"},
			IsCompleted: true},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, st listing.State) Model {
	t.Helper()
	src := fakeSource{tasks: fixtures()}
	m := New(src, "user", keys.DefaultKeyMap(), st, 100, 30)
	msg := m.LoadTasks()()
	m, _ = m.Update(msg)
	return m
}

func TestLoadAppliesState(t *testing.T) {
	m := loaded(t, listing.State{Sort: listing.SortAlphabetical})

	if got := len(m.result.Tasks); got != 2 {
		t.Fatalf("expected completed task hidden, got %d tasks", got)
	}
	sel, ok := m.SelectedTask()
	if !ok || sel.Description != "Buy milk" {
		t.Errorf("expected cursor on first task alphabetically, got %+v", sel)
	}
	if !strings.Contains(m.View(), "Showing 2 of 2 tasks") {
		t.Errorf("summary missing from view:\n%s", m.View())
	}
}

func TestFilterKeys(t *testing.T) {
	m := loaded(t, listing.State{Sort: listing.SortAlphabetical})

	m, _ = m.Update(runes("1"))
	if m.state.Filter != listing.FilterProject || m.state.Value != "p-home" {
		t.Fatalf("expected project filter on Home, got %+v", m.state)
	}
	if got := m.FilterSummary(); got != "project: Home" {
		t.Errorf("FilterSummary = %q", got)
	}

	m, _ = m.Update(runes("1"))
	if m.state.Active() {
		t.Errorf("second press should clear the filter, got %+v", m.state)
	}

	// The selected task has no location, so the location filter stays off.
	m, _ = m.Update(runes("2"))
	if m.state.Active() {
		t.Errorf("expected no location filter, got %+v", m.state)
	}

	m, _ = m.Update(runes("H"))
	if !m.state.ShowCompleted || len(m.result.Tasks) != 3 {
		t.Errorf("expected completed tasks shown, got %d", len(m.result.Tasks))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.state.Sort != listing.SortPriority {
		t.Errorf("expected priority sort, got %s", m.state.Sort)
	}
}

func TestSetPositionEnablesNearby(t *testing.T) {
	m := loaded(t, listing.State{Sort: listing.SortAlphabetical})

	m.SetPosition(&geo.Coordinate{Lat: 40.0003, Lng: -74}, false)
	if m.state.Active() {
		t.Fatalf("position alone should not filter, got %+v", m.state)
	}

	m.SetPosition(&geo.Coordinate{Lat: 40.0003, Lng: -74}, true)
	if m.state.Filter != listing.FilterProximity {
		t.Fatalf("expected nearby filter, got %+v", m.state)
	}
	if len(m.result.Tasks) != 1 || m.result.Tasks[0].ID != "2" {
		t.Errorf("expected only the office task, got %+v", m.result.Tasks)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{12.4, "12 m"},
		{999, "999 m"},
		{1500, "1.5 km"},
	}
	for _, tt := range tests {
		if got := formatDistance(tt.meters); got != tt.want {
			t.Errorf("formatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}
