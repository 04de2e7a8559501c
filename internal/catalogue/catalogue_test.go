package catalogue

import (
	"context"
	"testing"

	"github.com/Vishal4742/sonica/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestCatalogue(t *testing.T) Catalogue {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SongRecord{}, &models.RecognitionLogEntry{}))
	return New(db)
}

func TestCreateAndGetSong(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalogue(t)

	id, err := c.CreateSong(ctx, &models.SongRecord{Title: "Kesariya", Artist: "Arijit Singh"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := c.GetSong(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Kesariya", got.Title)
}

func TestGetSong_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalogue(t)

	_, err := c.GetSong(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrSongNotFound)
}

func TestRecognitionHistory_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalogue(t)

	require.NoError(t, c.LogRecognition(ctx, "user-a", "req-1", "song-1", 0.9, 120))
	require.NoError(t, c.LogRecognition(ctx, "user-b", "req-2", "song-2", 0.8, 90))

	history, err := c.GetRecognitionHistory(ctx, "user-a", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "req-1", history[0].RequestID)
}

func TestDeleteRecognitionHistory_RequiresOwnership(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalogue(t)

	require.NoError(t, c.LogRecognition(ctx, "user-a", "req-1", "song-1", 0.9, 120))
	history, err := c.GetRecognitionHistory(ctx, "user-a", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)

	err = c.DeleteRecognitionHistory(ctx, history[0].ID, "user-b")
	require.ErrorIs(t, err, ErrRecognitionNotFound)

	err = c.DeleteRecognitionHistory(ctx, history[0].ID, "user-a")
	require.NoError(t, err)
}

func TestGetRecognitionStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalogue(t)

	require.NoError(t, c.LogRecognition(ctx, "user-a", "req-1", "song-1", 0.9, 100))
	require.NoError(t, c.LogRecognitionError(ctx, "user-a", "req-2", errNoMatch{}, 50))

	stats, err := c.GetRecognitionStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalRecognitions)
	require.Equal(t, int64(1), stats.FailedRecognitions)
	require.Equal(t, int64(1), stats.SuccessfulRecognitions)
	require.InDelta(t, 0.5, stats.SuccessRate, 0.0001)
}

type errNoMatch struct{}

func (errNoMatch) Error() string { return "no matching song found" }
