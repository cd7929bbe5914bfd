package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

type memoryRecordRepository struct {
	mu      sync.RWMutex
	dataset entity.Dataset
}

// NewMemoryRecordRepository builds the in-memory record store. Records
// keep their load order; the aggregation layer relies on it for stable
// tie-breaking.
func NewMemoryRecordRepository() repository.RecordRepository {
	return &memoryRecordRepository{}
}

func (m *memoryRecordRepository) ReplaceAll(ctx context.Context, dataset entity.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]entity.Record, len(dataset.Records))
	copy(records, dataset.Records)
	dataset.Records = records
	m.dataset = dataset
	return nil
}

func (m *memoryRecordRepository) GetAll(ctx context.Context) ([]entity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]entity.Record, len(m.dataset.Records))
	copy(records, m.dataset.Records)
	return records, nil
}

func (m *memoryRecordRepository) GetDataset(ctx context.Context) (*entity.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.dataset.Records) == 0 && m.dataset.Source == "" {
		return nil, fmt.Errorf("no dataset loaded")
	}

	records := make([]entity.Record, len(m.dataset.Records))
	copy(records, m.dataset.Records)
	dataset := m.dataset
	dataset.Records = records
	return &dataset, nil
}

func (m *memoryRecordRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.dataset.Records), nil
}

func (m *memoryRecordRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset = entity.Dataset{}
	return nil
}
