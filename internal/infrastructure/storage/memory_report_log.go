package storage

import (
	"context"
	"sync"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

type memoryReportLogRepository struct {
	mu      sync.RWMutex
	entries map[int64][]entity.ReportEntry // key: user ID, ordered oldest first
	maxSize int
}

// NewMemoryReportLogRepository builds an in-memory report log keeping
// at most maxSize entries per user.
func NewMemoryReportLogRepository(maxSize int) repository.ReportLogRepository {
	return &memoryReportLogRepository{
		entries: make(map[int64][]entity.ReportEntry),
		maxSize: maxSize,
	}
}

func (m *memoryReportLogRepository) SaveEntry(ctx context.Context, entry entity.ReportEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(m.entries[entry.UserID], entry)
	if m.maxSize > 0 && len(list) > m.maxSize {
		list = list[len(list)-m.maxSize:]
	}
	m.entries[entry.UserID] = list
	return nil
}

func (m *memoryReportLogRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]entity.ReportEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.entries[userID]
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}

	out := make([]entity.ReportEntry, len(list))
	copy(out, list)
	return out, nil
}

func (m *memoryReportLogRepository) ClearHistory(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, userID)
	return nil
}
