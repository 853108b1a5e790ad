package views_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
	"github.com/nhle/lacquer/tests/testutil"
)

func TestTrackerInvalidate(t *testing.T) {
	ctx := context.Background()
	tr := views.NewTracker(testutil.NewTestStore(t))

	before, err := tr.ETag(ctx, "u1", views.Tasks)
	require.NoError(t, err)
	assert.Equal(t, `W/"tasks-0"`, before)

	require.NoError(t, tr.Invalidate(ctx, "u1", views.Tasks, views.Projects))

	after, err := tr.ETag(ctx, "u1", views.Tasks)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	locations, err := tr.ETag(ctx, "u1", views.Locations)
	require.NoError(t, err)
	assert.Equal(t, `W/"locations-0"`, locations)

	other, err := tr.ETag(ctx, "u2", views.Tasks)
	require.NoError(t, err)
	assert.Equal(t, before, other)
}

func TestTrackerSharedAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lacquer.db")

	open := func() *store.SQLStore {
		s, err := store.NewSQLiteStore(path)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}
	server := views.NewTracker(open())
	client := views.NewTracker(open())

	etag, err := server.ETag(ctx, "u", views.Tasks)
	require.NoError(t, err)

	require.NoError(t, client.Invalidate(ctx, "u", views.Tasks))

	fresh, err := server.ETag(ctx, "u", views.Tasks)
	require.NoError(t, err)
	assert.NotEqual(t, etag, fresh, "a mutation through another handle must change the tag")

	again, err := client.ETag(ctx, "u", views.Tasks)
	require.NoError(t, err)
	assert.Equal(t, fresh, again)
}

func TestTrackerConcurrent(t *testing.T) {
	ctx := context.Background()
	tr := views.NewTracker(testutil.NewTestStore(t))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tr.Invalidate(ctx, "u", views.Tasks)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
