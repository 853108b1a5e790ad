// Package service implements the task tracker's operations on top of a
// store. Every operation takes the resolved user id and only ever touches
// that user's rows.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// Service carries the store, view invalidation and logging shared by all
// operations.
type Service struct {
	store  store.Store
	views  views.Invalidator
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone that date-only values are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// New creates a Service. A nil invalidator or logger is replaced with a
// no-op implementation.
func New(st store.Store, inv views.Invalidator, logger *log.Logger, opts ...Option) *Service {
	if inv == nil {
		inv = views.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Service{
		store:  st,
		views:  inv,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fail logs an unexpected error and wraps it for the caller.
func (s *Service) fail(op string, err error, keyvals ...any) error {
	s.logger.Error("operation failed", append([]any{"op", op, "err", err}, keyvals...)...)
	return fmt.Errorf("%s: %w", op, err)
}

// invalidate marks views stale after a committed mutation. Failures are
// logged, not returned.
func (s *Service) invalidate(ctx context.Context, userID string, vs ...views.View) {
	if err := s.views.Invalidate(ctx, userID, vs...); err != nil {
		s.logger.Warn("invalidating views", "user", userID, "views", vs, "err", err)
	}
}
