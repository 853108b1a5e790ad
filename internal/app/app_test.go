package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/geocode"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/ui/editform"
	"github.com/nhle/lacquer/internal/ui/taskform"
	"github.com/nhle/lacquer/tests/testutil"
)

type stubGeocoder struct{}

func (stubGeocoder) Forward(_ context.Context, address string) ([]geocode.Place, error) {
	if address == "nowhere" {
		return nil, nil
	}
	return []geocode.Place{{Address: "1 Main St", Lat: 37.7749, Lng: -122.4194}}, nil
}

func (stubGeocoder) ReverseOrCoordinates(context.Context, geo.Coordinate) string {
	return "Here"
}

type fixture struct {
	m      Model
	svc    *service.Service
	userID string
}

func newFixture(t *testing.T, geocoder Geocoder, pos *geo.Coordinate) *fixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	u := testutil.NewUser(t, st, "tui@example.com")
	svc := service.New(st, nil, nil)

	m := New(Options{Service: svc, UserID: u.ID, Geocoder: geocoder, Position: pos})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &fixture{m: next.(Model), svc: svc, userID: u.ID}
}

// send feeds msg through Update and runs the returned command once.
func (f *fixture) send(msg tea.Msg) tea.Msg {
	next, cmd := f.m.Update(msg)
	f.m = next.(Model)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestCreateTaskGeocodesAddress(t *testing.T) {
	f := newFixture(t, stubGeocoder{}, nil)

	out := f.send(taskform.SubmittedMsg{Description: "Pick up parcel", Address: "post office", Priority: "LOW"})
	changed, ok := out.(taskChangedMsg)
	require.True(t, ok, "got %T", out)
	require.NoError(t, changed.err)

	tasks, err := f.svc.ListTasks(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Location)
	assert.Equal(t, "1 Main St", tasks[0].Location.Name)
}

func TestCreateTaskAtCurrentPosition(t *testing.T) {
	pos := &geo.Coordinate{Lat: 48.8584, Lng: 2.2945}
	f := newFixture(t, stubGeocoder{}, pos)

	out := f.send(taskform.SubmittedMsg{Description: "Take photo", UseCurrentPosition: true})
	require.NoError(t, out.(taskChangedMsg).err)

	locations, err := f.svc.ListLocations(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Here", locations[0].Name)
	assert.Equal(t, *pos, locations[0].Coordinate())
}

func TestCreateTaskAddressErrors(t *testing.T) {
	f := newFixture(t, nil, nil)
	out := f.send(taskform.SubmittedMsg{Description: "x", Address: "somewhere"})
	assert.ErrorIs(t, out.(taskChangedMsg).err, errNoGeocoder)

	f = newFixture(t, stubGeocoder{}, nil)
	out = f.send(taskform.SubmittedMsg{Description: "x", Address: "nowhere"})
	assert.Error(t, out.(taskChangedMsg).err)

	tasks, err := f.svc.ListTasks(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDueDatesParsedByService(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	out := f.send(taskform.SubmittedMsg{Description: "Renew passport", DueDate: "2025-01-02"})
	require.NoError(t, out.(taskChangedMsg).err)

	tasks, err := f.svc.ListTasks(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2025-01-02", tasks[0].DueDateString())
	id := tasks[0].ID

	out = f.send(editform.DueDateMsg{TaskID: id, DueDate: "2025-02-03"})
	changed := out.(taskChangedMsg)
	require.NoError(t, changed.err)
	assert.Equal(t, "Due 2025-02-03", changed.notice)

	out = f.send(editform.DueDateMsg{TaskID: id, DueDate: "soon"})
	assert.True(t, service.IsValidation(out.(taskChangedMsg).err))

	out = f.send(editform.DueDateMsg{TaskID: id})
	assert.Equal(t, "Due date cleared", out.(taskChangedMsg).notice)
	got, err := f.svc.GetTask(ctx, f.userID, id)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestListKeysMutateSelectedTask(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, f.userID, service.CreateTaskInput{Description: "Water plants"})
	require.NoError(t, err)

	f.send(f.m.taskList.LoadTasks()())

	out := f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.NoError(t, out.(taskChangedMsg).err)
	got, err := f.svc.GetTask(ctx, f.userID, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	out = f.send(editform.NoteMsg{TaskID: task.ID, Content: "twice a week"})
	require.NoError(t, out.(taskChangedMsg).err)
	got, err = f.svc.GetTask(ctx, f.userID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Note)
	assert.Equal(t, "twice a week", got.Note.Content)

	out = f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NoError(t, out.(taskChangedMsg).err)
	_, err = f.svc.GetTask(ctx, f.userID, task.ID)
	assert.True(t, service.IsNotFound(err))
}

func TestHelpToggle(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ViewHelp, f.m.currentView)

	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, f.m.currentView)
}
