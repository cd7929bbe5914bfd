package repository

import (
	"context"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

// DatasetParser reads retail records out of a spreadsheet.
type DatasetParser interface {
	// ParseRecords reads records from a file on disk.
	ParseRecords(ctx context.Context, filePath string) ([]entity.Record, error)

	// ParseRecordsFromBytes reads records from an in-memory file,
	// e.g. a document uploaded through the bot.
	ParseRecordsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Record, error)
}
