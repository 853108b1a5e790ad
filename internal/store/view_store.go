package store

import (
	"context"
	"fmt"
)

// GetViewTag returns the tag last stamped on a user's view, or "" when the
// view has never been stamped.
func (s *SQLStore) GetViewTag(ctx context.Context, userID, view string) (string, error) {
	var tags []string
	err := s.db.SelectContext(ctx, &tags, s.q(
		"SELECT tag FROM view_versions WHERE user_id = ? AND view_name = ?"),
		userID, view)
	if err != nil {
		return "", fmt.Errorf("querying view tag %s/%s: %w", userID, view, err)
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0], nil
}

// StampViews sets tag on each of the user's views in one transaction.
func (s *SQLStore) StampViews(ctx context.Context, userID, tag string, views ...string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning view stamp: %w", err)
	}
	defer tx.Rollback()

	query := s.q(`INSERT INTO view_versions (user_id, view_name, tag) VALUES (?, ?, ?)
		ON CONFLICT (user_id, view_name) DO UPDATE SET tag = excluded.tag`)
	for _, v := range views {
		if _, err := tx.ExecContext(ctx, query, userID, v, tag); err != nil {
			return fmt.Errorf("stamping view %s/%s: %w", userID, v, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing view stamp: %w", err)
	}
	return nil
}
