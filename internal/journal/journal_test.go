package journal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	// A named shared-cache in-memory database so the connection pool sees
	// one store, isolated per test by name.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	svc, err := NewService(db)
	require.NoError(t, err)
	return svc
}

func TestCreateAndRoundTrip(t *testing.T) {
	svc := newTestService(t)
	sky := 4.3
	observed := time.Date(2026, 8, 12, 22, 30, 0, 0, time.UTC)

	entry := &Entry{
		ID:         "obs-2026-08-12",
		Title:      "Perseids over the bay",
		Notes:      "Clear sky, ~40 meteors in an hour.",
		Location:   "Halifax, NS",
		Weather:    "clear, 14C",
		SkyIndex:   &sky,
		PhotoRef:   "photos/perseids-01.jpg",
		ObservedAt: &observed,
	}
	require.NoError(t, svc.Create(7, entry))

	got, err := svc.Get(7, "obs-2026-08-12")
	require.NoError(t, err)
	assert.Equal(t, entry.Title, got.Title)
	assert.Equal(t, entry.Notes, got.Notes)
	assert.Equal(t, entry.Location, got.Location)
	assert.Equal(t, entry.Weather, got.Weather)
	assert.Equal(t, *entry.SkyIndex, *got.SkyIndex)
	assert.Equal(t, entry.PhotoRef, got.PhotoRef)
	assert.True(t, got.ObservedAt.Equal(observed))
}

func TestCreateGeneratesIDWhenMissing(t *testing.T) {
	svc := newTestService(t)

	entry := &Entry{Title: "Untitled night"}
	require.NoError(t, svc.Create(1, entry))
	assert.NotEmpty(t, entry.ID)
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	svc := newTestService(t)

	err := svc.Create(1, &Entry{Notes: "no title"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "Title")
}

func TestEntriesAreScopedToUser(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Create(1, &Entry{ID: "mine", Title: "Mine"}))

	_, err := svc.Get(2, "mine")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := svc.List(2)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Create(1, &Entry{ID: "e1", Title: "Before", Notes: "old"}))

	got, err := svc.Update(1, "e1", &Entry{Title: "After", Notes: "new"})
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "new", got.Notes)

	reloaded, err := svc.Get(1, "e1")
	require.NoError(t, err)
	assert.Equal(t, "After", reloaded.Title)
}

func TestUpdateMissingEntry(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(1, "ghost", &Entry{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Create(1, &Entry{ID: "e1", Title: "t"}))

	require.NoError(t, svc.Delete(1, "e1"))
	_, err := svc.Get(1, "e1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(1, "e1"), ErrNotFound)
}
