package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/storage"
)

func TestMissingValues(t *testing.T) {
	records := []entity.Record{
		{ProductID: "P1", ProductName: "Widget", Region: "North", Category: "Tools", Supplier: "Acme",
			Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ProductID: "", ProductName: "", Region: "", Category: "", Supplier: ""},
	}

	report := MissingValues(records)
	assert.Equal(t, 2, report.TotalRecords)
	assert.Equal(t, 1, report.Date)
	assert.Equal(t, 1, report.ProductID)
	assert.Equal(t, 1, report.ProductName)
	assert.Equal(t, 1, report.Region)
	assert.Equal(t, 1, report.Category)
	assert.Equal(t, 1, report.Supplier)
}

func TestDropMissingDates(t *testing.T) {
	records := []entity.Record{
		{ProductID: "P1", Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ProductID: "P2"},
		{ProductID: "P3", Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}

	kept := DropMissingDates(records)
	require.Len(t, kept, 2)
	assert.Equal(t, "P1", kept[0].ProductID)
	assert.Equal(t, "P3", kept[1].ProductID)
}

func TestRemoveDuplicates(t *testing.T) {
	records := []entity.Record{
		{ProductID: "P1", Region: "North"},
		{ProductID: "P2"},
		{ProductID: "P1", Region: "South"},
		{ProductID: ""},
		{ProductID: ""},
	}

	kept := RemoveDuplicates(records)
	require.Len(t, kept, 4)

	// the first occurrence wins
	assert.Equal(t, "North", kept[0].Region)
	// records without an id are never treated as duplicates
	assert.Equal(t, "", kept[2].ProductID)
	assert.Equal(t, "", kept[3].ProductID)
}

func TestNormalizeText(t *testing.T) {
	records := []entity.Record{
		{ProductName: "  Widget   Pro ", Region: " North\tWest ", Category: "Tools", Supplier: "Acme  Inc"},
	}

	out := NormalizeText(records)
	require.Len(t, out, 1)
	assert.Equal(t, "Widget Pro", out[0].ProductName)
	assert.Equal(t, "North West", out[0].Region)
	assert.Equal(t, "Tools", out[0].Category)
	assert.Equal(t, "Acme Inc", out[0].Supplier)

	// the input slice is left untouched
	assert.Equal(t, "  Widget   Pro ", records[0].ProductName)
}

func TestCleaningUseCaseReplacesDataset(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRecordRepository()

	err := repo.ReplaceAll(ctx, entity.Dataset{
		Records: []entity.Record{
			{ProductID: "P1", Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
			{ProductID: "P2"},
		},
		Source:   "test.xlsx",
		LoadedAt: time.Now(),
	})
	require.NoError(t, err)

	uc := NewCleaningUseCase(repo)

	dropped, err := uc.DropMissingDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	remaining, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "P1", remaining[0].ProductID)

	// the dataset source survives cleaning
	dataset, err := repo.GetDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test.xlsx", dataset.Source)
}
