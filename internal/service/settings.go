package service

import (
	"context"
	"errors"

	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// AutoLocationFilter reports whether the user's task list should start on
// the nearby filter. It defaults to true when the user row is missing or
// cannot be read.
func (s *Service) AutoLocationFilter(ctx context.Context, userID string) bool {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("reading auto location filter", "user", userID, "err", err)
		}
		return true
	}
	return user.AutoLocationFilter
}

// UpdateAutoLocationFilter stores the user's nearby-by-default preference.
func (s *Service) UpdateAutoLocationFilter(ctx context.Context, userID string, enabled bool) error {
	err := s.store.SetAutoLocationFilter(ctx, userID, enabled)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("User")
	}
	if err != nil {
		return s.fail("updating auto location filter", err, "user", userID)
	}
	s.invalidate(ctx, userID, views.Settings, views.Tasks)
	return nil
}
