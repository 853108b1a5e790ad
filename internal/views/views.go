// Package views tracks which cached list views a mutation has made stale.
package views

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// View names a cached list view.
type View string

const (
	Tasks     View = "tasks"
	Projects  View = "projects"
	Locations View = "locations"
	Settings  View = "settings"
)

// Invalidator is notified after a mutation with the views it affected.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string, views ...View) error
}

// Store persists one tag per user and view. Every process sharing the
// database sees the same tags.
type Store interface {
	GetViewTag(ctx context.Context, userID, view string) (string, error)
	StampViews(ctx context.Context, userID, tag string, views ...string) error
}

// Tracker versions list views through tags kept in the database, so a
// mutation made by any process invalidates the ETags every server hands out.
type Tracker struct {
	store Store
}

// NewTracker creates a Tracker backed by st.
func NewTracker(st Store) *Tracker {
	return &Tracker{store: st}
}

// Invalidate stamps a fresh tag on each of the user's views.
func (t *Tracker) Invalidate(ctx context.Context, userID string, views ...View) error {
	if len(views) == 0 {
		return nil
	}
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = string(v)
	}
	return t.store.StampViews(ctx, userID, uuid.New().String(), names...)
}

// ETag renders a weak entity tag for a user's view. Callers read it before
// the data it describes so a racing mutation can only cause a refetch.
func (t *Tracker) ETag(ctx context.Context, userID string, view View) (string, error) {
	tag, err := t.store.GetViewTag(ctx, userID, string(view))
	if err != nil {
		return "", err
	}
	if tag == "" {
		tag = "0"
	}
	return fmt.Sprintf(`W/"%s-%s"`, view, tag), nil
}

// Nop discards invalidations.
type Nop struct{}

// Invalidate does nothing.
func (Nop) Invalidate(context.Context, string, ...View) error { return nil }
