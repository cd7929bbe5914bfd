package repository

import (
	"context"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

// RecordRepository holds the current dataset. Implementations must
// preserve insertion order: aggregation tie-breaking and alert output
// depend on the original record order.
type RecordRepository interface {
	// ReplaceAll swaps the whole dataset.
	ReplaceAll(ctx context.Context, dataset entity.Dataset) error

	// GetAll returns every record in insertion order.
	GetAll(ctx context.Context) ([]entity.Record, error)

	// GetDataset returns the dataset with its source metadata.
	GetDataset(ctx context.Context) (*entity.Dataset, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Clear removes all records.
	Clear(ctx context.Context) error
}
