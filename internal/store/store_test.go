package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "arcana.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcana.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestVisitorStats(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Date(2025, 10, 2, 15, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "curl", "/"))

	s.now = func() time.Time { return now.Add(-2 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "bbbb", "firefox", "/"))

	s.now = func() time.Time { return now.Add(-time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "aaaa", "curl", "/origins"))

	s.now = func() time.Time { return now }
	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.VisitorsToday)
	assert.Equal(t, int64(2), stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Count: 2}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, "/origins", stats.RecentVisitors[0].Path)
}

func TestRavens(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRaven(ctx, Raven{Name: "Ada", Email: "ada@example.com", Message: "hello", Outcome: "success"}))
	require.NoError(t, s.RecordRaven(ctx, Raven{Name: "Bob", Email: "bob@example.com", Message: "hi!!", Outcome: "network_error"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRavens)
	assert.Equal(t, int64(1), stats.DeliveredRavens)
	require.Len(t, stats.RecentRavens, 2)
	assert.Equal(t, "Bob", stats.RecentRavens[0].Name)
}

func TestPurgeVisitorsBefore(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Now()

	s.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, s.RecordVisit(ctx, "old", "", "/"))
	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "new", "", "/"))

	n, err := s.PurgeVisitorsBefore(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visitors, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "new", visitors[0].HashedIP)
}

func TestDeleteRaven(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	require.NoError(t, s.RecordRaven(ctx, Raven{Name: "Ada", Email: "ada@example.com", Message: "hello", Outcome: "success"}))

	ravens, err := s.RecentRavens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ravens, 1)

	ok, err := s.DeleteRaven(ctx, ravens[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteRaven(ctx, ravens[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
