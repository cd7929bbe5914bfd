package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

func TestMemoryRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	t.Run("empty store has no dataset", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = repo.GetDataset(ctx)
		assert.Error(t, err)
	})

	dataset := entity.Dataset{
		Records: []entity.Record{
			{ProductID: "P1", ProductName: "Widget"},
			{ProductID: "P2", ProductName: "Gadget"},
		},
		Source:   "sales.xlsx",
		LoadedAt: time.Now(),
	}

	t.Run("replace and read back", func(t *testing.T) {
		require.NoError(t, repo.ReplaceAll(ctx, dataset))

		records, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		// insertion order is preserved
		assert.Equal(t, "P1", records[0].ProductID)
		assert.Equal(t, "P2", records[1].ProductID)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := repo.GetDataset(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sales.xlsx", got.Source)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		records, err := repo.GetAll(ctx)
		require.NoError(t, err)
		records[0].ProductID = "mutated"

		again, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "P1", again[0].ProductID)
	})

	t.Run("replace swaps the whole dataset", func(t *testing.T) {
		next := entity.Dataset{
			Records:  []entity.Record{{ProductID: "P9"}},
			Source:   "other.xlsx",
			LoadedAt: time.Now(),
		}
		require.NoError(t, repo.ReplaceAll(ctx, next))

		records, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "P9", records[0].ProductID)
	})

	t.Run("clear wipes everything", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
