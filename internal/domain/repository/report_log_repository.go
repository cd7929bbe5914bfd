package repository

import (
	"context"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

// ReportLogRepository stores the history of generated reports.
type ReportLogRepository interface {
	// SaveEntry appends one report run. Implementations may prune
	// entries beyond their configured maximum per user.
	SaveEntry(ctx context.Context, entry entity.ReportEntry) error

	// GetHistory returns a user's most recent entries, oldest first.
	// limit <= 0 means no limit.
	GetHistory(ctx context.Context, userID int64, limit int) ([]entity.ReportEntry, error)

	// ClearHistory removes a user's entries.
	ClearHistory(ctx context.Context, userID int64) error
}
