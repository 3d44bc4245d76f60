package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlewatch/internal/config"
	"wordlewatch/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func resultFor(date string, id int, solution string) *models.ScrapeResult {
	score := 3.8
	return &models.ScrapeResult{
		Answer: &models.PuzzleAnswer{
			ID:        id,
			Solution:  solution,
			PrintDate: date,
		},
		Hints: models.HintRecord{
			Hint:       models.Hint{Consonant: "R", Vowel: "A"},
			Difficulty: models.Difficulty{Score: &score},
		},
		ScrapedAt: time.Now().UnixMilli(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	original := resultFor("2026-08-28", 2641, "CRANE")
	require.NoError(t, store.Write(ctx, original))

	loaded, err := store.ByDate(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, "CRANE", loaded.Answer.Solution)
	assert.Equal(t, "R", loaded.Hints.Hint.Consonant)
	require.NotNil(t, loaded.Hints.Difficulty.Score)
	assert.Equal(t, 3.8, *loaded.Hints.Difficulty.Score)
}

func TestStoreUpsertReplacesSameDate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, resultFor("2026-08-28", 2641, "CRANE")))
	require.NoError(t, store.Write(ctx, resultFor("2026-08-28", 2641, "SLATE")))

	loaded, err := store.ByDate(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, "SLATE", loaded.Answer.Solution)
}

func TestStoreLatest(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	older := resultFor("2026-08-27", 2640, "PLUMB")
	older.ScrapedAt = time.Now().Add(-time.Hour).UnixMilli()
	newer := resultFor("2026-08-28", 2641, "CRANE")

	require.NoError(t, store.Write(ctx, older))
	require.NoError(t, store.Write(ctx, newer))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", latest.Answer.Solution)
}

func TestStoreMissingDate(t *testing.T) {
	store := testStore(t)

	_, err := store.ByDate(context.Background(), "2026-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreLatestEmpty(t *testing.T) {
	store := testStore(t)

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotWriter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.SnapshotDir = filepath.Join(t.TempDir(), "snaps")

	w := NewSnapshotWriter(cfg)
	date, _ := time.Parse("2006-01-02", "2026-08-28")

	path, err := w.Save(date, "<html>page</html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Storage.SnapshotDir, "wordle-review-2026-08-28.html"), path)
	assert.FileExists(t, path)
}
