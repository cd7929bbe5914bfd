package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

func reportEntry(userID int64, kind string, n int) entity.ReportEntry {
	return entity.ReportEntry{
		ID:        fmt.Sprintf("entry-%d-%d", userID, n),
		UserID:    userID,
		Kind:      kind,
		Summary:   fmt.Sprintf("summary %d", n),
		CreatedAt: time.Now(),
	}
}

func TestMemoryReportLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReportLogRepository(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveEntry(ctx, reportEntry(1, "summary", i)))
	}
	require.NoError(t, repo.SaveEntry(ctx, reportEntry(2, "alerts", 0)))

	t.Run("keeps at most maxSize entries per user", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, history, 3)

		// oldest entries are trimmed first
		assert.Equal(t, "entry-1-2", history[0].ID)
		assert.Equal(t, "entry-1-4", history[2].ID)
	})

	t.Run("limit returns the newest entries oldest first", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "entry-1-3", history[0].ID)
		assert.Equal(t, "entry-1-4", history[1].ID)
	})

	t.Run("users are isolated", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "alerts", history[0].Kind)
	})

	t.Run("clear wipes one user only", func(t *testing.T) {
		require.NoError(t, repo.ClearHistory(ctx, 1))

		history, err := repo.GetHistory(ctx, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, history)

		other, err := repo.GetHistory(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}

func TestSQLiteReportLogRepository(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/reports.db"

	repo, err := NewSQLiteReportLogRepository(dbPath, 3)
	require.NoError(t, err)

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry := reportEntry(1, "forecast", i)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.SaveEntry(ctx, entry))
	}

	t.Run("trims past the per-user cap", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "entry-1-2", history[0].ID)
		assert.Equal(t, "entry-1-4", history[2].ID)
	})

	t.Run("history is oldest first", func(t *testing.T) {
		history, err := repo.GetHistory(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].CreatedAt.Before(history[1].CreatedAt))
	})

	t.Run("clear history", func(t *testing.T) {
		require.NoError(t, repo.ClearHistory(ctx, 1))
		history, err := repo.GetHistory(ctx, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteReportLogRepository("", 3)
		assert.Error(t, err)
	})
}
