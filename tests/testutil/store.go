package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
)

// NewTestStore creates an in-memory SQLite store with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewUser inserts a user with a random id and the given email.
func NewUser(t *testing.T, s store.UserRepository, email string) *model.User {
	t.Helper()

	u := &model.User{
		ID:                 uuid.New().String(),
		Username:           "user",
		Email:              email,
		AutoLocationFilter: true,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return u
}

// NewProject inserts a project owned by userID.
func NewProject(t *testing.T, s store.ProjectRepository, userID, name string) *model.Project {
	t.Helper()

	p := &model.Project{UserID: userID, Name: name}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("creating test project: %v", err)
	}
	return p
}
