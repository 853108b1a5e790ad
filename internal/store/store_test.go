package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/tests/testutil"
)

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	u := testutil.NewUser(t, s, "ada@example.com")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.True(t, got.AutoLocationFilter)

	byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := s.CreateUser(ctx, &model.User{ID: u.ID, Username: "again"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := s.CreateUser(ctx, &model.User{ID: "other", Username: "x", Email: "ada@example.com"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("empty emails do not collide", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, &model.User{ID: "no-mail-1", Username: "a"}))
		require.NoError(t, s.CreateUser(ctx, &model.User{ID: "no-mail-2", Username: "b"}))
	})

	t.Run("settings", func(t *testing.T) {
		require.NoError(t, s.SetAutoLocationFilter(ctx, u.ID, false))
		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, got.AutoLocationFilter)

		assert.ErrorIs(t, s.SetAutoLocationFilter(ctx, "missing", true), store.ErrNotFound)
	})

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")

	work := testutil.NewProject(t, s, alice.ID, "Work")
	testutil.NewProject(t, s, alice.ID, "Errands")
	testutil.NewProject(t, s, bob.ID, "Work")

	projects, err := s.GetProjects(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Errands", projects[0].Name)
	assert.Equal(t, "Work", projects[1].Name)
	for _, p := range projects {
		assert.Equal(t, alice.ID, p.UserID)
	}

	err = s.CreateProject(ctx, &model.Project{UserID: alice.ID, Name: "Work"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.GetProjectByID(ctx, bob.ID, work.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	byName, err := s.GetProjectByName(ctx, alice.ID, "Work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, byName.ID)
}

func TestTasksAreScopedAndJoined(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	project := testutil.NewProject(t, s, alice.ID, "Home")

	loc := &model.Location{UserID: alice.ID, Name: "Market St", Latitude: 37.7749, Longitude: -122.4194}
	require.NoError(t, s.CreateLocation(ctx, loc))
	assert.Equal(t, model.DefaultLocationRadius, loc.Radius)

	due := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	task := &model.Task{
		Description: "Buy paint",
		ProjectID:   project.ID,
		LocationID:  &loc.ID,
		DueDate:     &due,
		Priority:    model.PriorityHigh,
	}
	require.NoError(t, s.CreateTask(ctx, alice.ID, task))

	got, err := s.GetTaskByID(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy paint", got.Description)
	assert.Equal(t, "Home", got.Project.Name)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Market St", got.Location.Name)
	assert.Equal(t, "2024-03-05", got.DueDateString())
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.False(t, got.IsCompleted)
	assert.Nil(t, got.Note)

	_, err = s.GetTaskByID(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	t.Run("create into foreign project", func(t *testing.T) {
		err := s.CreateTask(ctx, bob.ID, &model.Task{Description: "x", ProjectID: project.ID})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("updates are scoped", func(t *testing.T) {
		assert.ErrorIs(t, s.SetTaskCompletion(ctx, bob.ID, task.ID, true), store.ErrNotFound)
		assert.ErrorIs(t, s.SetTaskDueDate(ctx, bob.ID, task.ID, nil), store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteTask(ctx, bob.ID, task.ID), store.ErrNotFound)

		require.NoError(t, s.SetTaskCompletion(ctx, alice.ID, task.ID, true))
		require.NoError(t, s.SetTaskDueDate(ctx, alice.ID, task.ID, nil))

		got, err := s.GetTaskByID(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
		assert.Nil(t, got.DueDate)
	})

	t.Run("filters", func(t *testing.T) {
		other := &model.Task{Description: "Anywhere task", ProjectID: project.ID}
		require.NoError(t, s.CreateTask(ctx, alice.ID, other))

		all, err := s.GetTasks(ctx, alice.ID, store.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		atLoc, err := s.GetTasks(ctx, alice.ID, store.TaskFilter{LocationID: &loc.ID})
		require.NoError(t, err)
		require.Len(t, atLoc, 1)
		assert.Equal(t, task.ID, atLoc[0].ID)

		nowhere, err := s.GetTasks(ctx, alice.ID, store.TaskFilter{WithoutLocation: true})
		require.NoError(t, err)
		require.Len(t, nowhere, 1)
		assert.Equal(t, other.ID, nowhere[0].ID)

		none, err := s.GetTasks(ctx, bob.ID, store.TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestFindLocationNear(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")

	first := &model.Location{UserID: alice.ID, Name: "A", Latitude: 37.77490, Longitude: -122.41940}
	require.NoError(t, s.CreateLocation(ctx, first))

	got, err := s.FindLocationNear(ctx, alice.ID, geo.Coordinate{Lat: 37.77491, Lng: -122.41941})
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.FindLocationNear(ctx, alice.ID, geo.Coordinate{Lat: 37.77520, Lng: -122.41940})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindLocationNear(ctx, bob.ID, geo.Coordinate{Lat: 37.77490, Lng: -122.41940})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	project := testutil.NewProject(t, s, alice.ID, "Home")

	task := &model.Task{Description: "Call mom", ProjectID: project.ID}
	require.NoError(t, s.CreateTask(ctx, alice.ID, task))

	note := &model.TaskNote{Content: "first"}
	require.NoError(t, s.CreateNoteForTask(ctx, alice.ID, task.ID, note))

	err := s.CreateNoteForTask(ctx, alice.ID, task.ID, &model.TaskNote{Content: "second"})
	assert.ErrorIs(t, err, store.ErrConflict)

	err = s.CreateNoteForTask(ctx, bob.ID, task.ID, &model.TaskNote{Content: "bob"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	note.Content = "updated"
	note.UpdatedAt = time.Now().UTC().Add(time.Minute)
	require.NoError(t, s.UpdateNote(ctx, alice.ID, note))
	assert.ErrorIs(t, s.UpdateNote(ctx, bob.ID, note), store.ErrNotFound)

	got, err := s.GetNote(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, "updated", got.Content)

	_, err = s.GetNote(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Still linked, so not an orphan.
	n, err := s.DeleteOrphanNotes(ctx, []string{note.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.DeleteTask(ctx, alice.ID, task.ID))
	n, err = s.DeleteOrphanNotes(ctx, []string{note.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDeleteProjectCascade(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	project := testutil.NewProject(t, s, alice.ID, "Garden")
	keep := testutil.NewProject(t, s, alice.ID, "Keep")

	withNote := &model.Task{Description: "Weed", ProjectID: project.ID}
	require.NoError(t, s.CreateTask(ctx, alice.ID, withNote))
	note := &model.TaskNote{Content: "gloves"}
	require.NoError(t, s.CreateNoteForTask(ctx, alice.ID, withNote.ID, note))
	require.NoError(t, s.CreateTask(ctx, alice.ID, &model.Task{Description: "Water", ProjectID: project.ID}))
	require.NoError(t, s.CreateTask(ctx, alice.ID, &model.Task{Description: "Other", ProjectID: keep.ID}))

	_, err := s.DeleteProjectCascade(ctx, bob.ID, project.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	noteIDs, err := s.DeleteProjectCascade(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{note.ID}, noteIDs)

	tasks, err := s.GetTasks(ctx, alice.ID, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Other", tasks[0].Description)

	n, err := s.DeleteOrphanNotes(ctx, noteIDs)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestWithTasksGroupings(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	alice := testutil.NewUser(t, s, "alice@example.com")
	project := testutil.NewProject(t, s, alice.ID, "Home")
	empty := testutil.NewProject(t, s, alice.ID, "Empty")

	loc := &model.Location{UserID: alice.ID, Name: "Park", Latitude: 1, Longitude: 2}
	require.NoError(t, s.CreateLocation(ctx, loc))
	require.NoError(t, s.CreateTask(ctx, alice.ID, &model.Task{Description: "Run", ProjectID: project.ID, LocationID: &loc.ID}))
	require.NoError(t, s.CreateTask(ctx, alice.ID, &model.Task{Description: "Read", ProjectID: project.ID}))

	projects, err := s.GetProjectsWithTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, empty.ID, projects[0].ID)
	assert.Empty(t, projects[0].Tasks)
	assert.Len(t, projects[1].Tasks, 2)

	groups, err := s.GetLocationsWithTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Tasks, 1)
	assert.Equal(t, "Run", groups[0].Tasks[0].Description)
	require.NotNil(t, groups[0].Latitude)
	assert.InDelta(t, 1.0, *groups[0].Latitude, 1e-9)
}
