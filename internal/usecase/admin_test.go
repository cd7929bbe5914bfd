package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/infrastructure/storage"
)

type stubParser struct {
	records []entity.Record
}

func (s *stubParser) ParseRecords(ctx context.Context, path string) ([]entity.Record, error) {
	return s.records, nil
}

func (s *stubParser) ParseRecordsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Record, error) {
	return s.records, nil
}

func newAdminFixture() (AdminUseCase, DatasetUseCase) {
	recordRepo := storage.NewMemoryRecordRepository()
	adminRepo := storage.NewMemoryAdminRepository()
	parser := &stubParser{records: []entity.Record{
		{ProductID: "P1", ProductName: "Widget"},
		{ProductID: "P2", ProductName: "Gadget"},
	}}
	datasetUC := NewDatasetUseCase(recordRepo, parser)
	adminUC := NewAdminUseCase(adminRepo, recordRepo, datasetUC, "secret")
	return adminUC, datasetUC
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	adminUC, _ := newAdminFixture()

	t.Run("wrong password is rejected", func(t *testing.T) {
		ok, err := adminUC.Login(ctx, 1, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)

		isAdmin, err := adminUC.IsAdmin(ctx, 1)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})

	t.Run("correct password opens a session", func(t *testing.T) {
		ok, err := adminUC.Login(ctx, 1, "secret")
		require.NoError(t, err)
		assert.True(t, ok)

		isAdmin, err := adminUC.IsAdmin(ctx, 1)
		require.NoError(t, err)
		assert.True(t, isAdmin)
	})

	t.Run("logout closes the session", func(t *testing.T) {
		require.NoError(t, adminUC.Logout(ctx, 1))

		isAdmin, err := adminUC.IsAdmin(ctx, 1)
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})
}

func TestUploadDatasetRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	adminUC, datasetUC := newAdminFixture()

	_, err := adminUC.UploadDataset(ctx, 7, []byte("xlsx"), "sales.xlsx")
	assert.Error(t, err)

	ok, err := adminUC.Login(ctx, 7, "secret")
	require.NoError(t, err)
	require.True(t, ok)

	count, err := adminUC.UploadDataset(ctx, 7, []byte("xlsx"), "sales.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	names, err := datasetUC.ProductNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gadget", "Widget"}, names)
}

func TestDatasetRecords(t *testing.T) {
	ctx := context.Background()
	adminUC, datasetUC := newAdminFixture()

	has, err := datasetUC.HasRecords(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	ok, err := adminUC.Login(ctx, 1, "secret")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = adminUC.UploadDataset(ctx, 1, nil, "sales.xlsx")
	require.NoError(t, err)

	has, err = datasetUC.HasRecords(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	records, err := datasetUC.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
