package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/lacquer/internal/model"
)

type userRow struct {
	ID                 string         `db:"user_id"`
	Username           string         `db:"username"`
	Email              sql.NullString `db:"email"`
	AutoLocationFilter bool           `db:"auto_location_filter"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (r userRow) toModel() *model.User {
	return &model.User{
		ID:                 r.ID,
		Username:           r.Username,
		Email:              r.Email.String,
		AutoLocationFilter: r.AutoLocationFilter,
		CreatedAt:          r.CreatedAt,
	}
}

const userColumns = "user_id, username, email, auto_location_filter, created_at"

// GetUser retrieves a user by id.
func (s *SQLStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+userColumns+" FROM users WHERE user_id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return row.toModel(), nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	var row userRow
	err := s.db.GetContext(ctx, &row,
		s.q("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return row.toModel(), nil
}

// CreateUser inserts a user. An empty email is stored as NULL so users
// without one do not collide on the unique index.
func (s *SQLStore) CreateUser(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	email := sql.NullString{String: user.Email, Valid: user.Email != ""}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (user_id, username, email, auto_location_filter, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		user.ID, user.Username, email, user.AutoLocationFilter, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("creating user %s: %w", user.ID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating user %s: %w", user.ID, err)
	}
	return nil
}

// SetAutoLocationFilter updates the user's nearby-by-default preference.
func (s *SQLStore) SetAutoLocationFilter(ctx context.Context, userID string, enabled bool) error {
	result, err := s.db.ExecContext(ctx,
		s.q("UPDATE users SET auto_location_filter = ? WHERE user_id = ?"),
		enabled, userID)
	if err != nil {
		return fmt.Errorf("updating settings for user %s: %w", userID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
