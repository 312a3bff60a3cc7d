package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandyck/gitrhythm/internal/models"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store, err := NewSQLiteStore(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSaveLoadCommits(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	commits := []models.Commit{
		{Repo: "alpha", SHA: "c2", Timestamp: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), Additions: 7},
		{Repo: "alpha", SHA: "c1", Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Additions: 3, DocOnly: true},
	}
	require.NoError(t, store.SaveCommits(ctx, "octocat", commits))

	got, err := store.LoadCommits(ctx, "octocat", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].SHA, "commits must come back in ascending time order")
	assert.True(t, got[1].DocOnly == false && got[0].DocOnly)
	assert.Equal(t, time.UTC, got[0].Timestamp.Location())
}

func TestSQLiteSaveCommitsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	c := models.Commit{Repo: "alpha", SHA: "c1", Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Additions: 3}
	require.NoError(t, store.SaveCommits(ctx, "octocat", []models.Commit{c}))

	c.Additions = 9
	require.NoError(t, store.SaveCommits(ctx, "octocat", []models.Commit{c}))

	got, err := store.LoadCommits(ctx, "octocat", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Additions, "re-saving the same sha must replace, not duplicate")
}

func TestSQLiteLoadCommitsSince(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCommits(ctx, "octocat", []models.Commit{
		{Repo: "alpha", SHA: "old", Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Repo: "alpha", SHA: "new", Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}))

	got, err := store.LoadCommits(ctx, "octocat", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].SHA)
}

func TestSQLiteCommitsScopedByUser(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCommits(ctx, "octocat", []models.Commit{
		{Repo: "alpha", SHA: "c1", Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}))

	got, err := store.LoadCommits(ctx, "someone-else", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteFetchState(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.LastFetched(ctx, "octocat", "alpha")
	assert.ErrorIs(t, err, ErrNotFound)

	at := time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC)
	require.NoError(t, store.SetLastFetched(ctx, "octocat", "alpha", at))

	got, err := store.LastFetched(ctx, "octocat", "alpha")
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	// Watermarks advance in place.
	later := at.Add(24 * time.Hour)
	require.NoError(t, store.SetLastFetched(ctx, "octocat", "alpha", later))
	got, err = store.LastFetched(ctx, "octocat", "alpha")
	require.NoError(t, err)
	assert.True(t, got.Equal(later))
}
