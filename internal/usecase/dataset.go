package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// DatasetUseCase loads and describes the current record collection.
type DatasetUseCase interface {
	// LoadFromFile parses a spreadsheet on disk and replaces the
	// dataset, returning the record count.
	LoadFromFile(ctx context.Context, path string) (int, error)

	// LoadFromBytes parses an uploaded spreadsheet and replaces the
	// dataset, returning the record count.
	LoadFromBytes(ctx context.Context, data []byte, filename string) (int, error)

	// HasRecords reports whether a dataset is loaded.
	HasRecords(ctx context.Context) (bool, error)

	// Records returns a copy of the current records.
	Records(ctx context.Context) ([]entity.Record, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// ProductNames returns the distinct product names, sorted.
	ProductNames(ctx context.Context) ([]string, error)

	// DatasetAsText renders a compact report of the dataset for use
	// as AI grounding context.
	DatasetAsText(ctx context.Context) (string, error)
}

type datasetUseCase struct {
	recordRepo repository.RecordRepository
	parser     repository.DatasetParser
}

// NewDatasetUseCase builds the dataset use case.
func NewDatasetUseCase(recordRepo repository.RecordRepository, parser repository.DatasetParser) DatasetUseCase {
	return &datasetUseCase{recordRepo: recordRepo, parser: parser}
}

func (u *datasetUseCase) LoadFromFile(ctx context.Context, path string) (int, error) {
	records, err := u.parser.ParseRecords(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return u.replace(ctx, records, path)
}

func (u *datasetUseCase) LoadFromBytes(ctx context.Context, data []byte, filename string) (int, error) {
	records, err := u.parser.ParseRecordsFromBytes(ctx, data, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return u.replace(ctx, records, filename)
}

func (u *datasetUseCase) replace(ctx context.Context, records []entity.Record, source string) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("no valid records found in %s", source)
	}
	dataset := entity.Dataset{
		Records:  records,
		Source:   source,
		LoadedAt: time.Now(),
	}
	if err := u.recordRepo.ReplaceAll(ctx, dataset); err != nil {
		return 0, fmt.Errorf("failed to store dataset: %w", err)
	}
	return len(records), nil
}

func (u *datasetUseCase) HasRecords(ctx context.Context) (bool, error) {
	count, err := u.recordRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *datasetUseCase) Records(ctx context.Context) ([]entity.Record, error) {
	return u.recordRepo.GetAll(ctx)
}

func (u *datasetUseCase) Count(ctx context.Context) (int, error) {
	return u.recordRepo.Count(ctx)
}

func (u *datasetUseCase) ProductNames(ctx context.Context) ([]string, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if r.ProductName == "" || seen[r.ProductName] {
			continue
		}
		seen[r.ProductName] = true
		names = append(names, r.ProductName)
	}
	sort.Strings(names)
	return names, nil
}

// DatasetAsText renders the dataset summary the AI answers from.
func (u *datasetUseCase) DatasetAsText(ctx context.Context) (string, error) {
	dataset, err := u.recordRepo.GetDataset(ctx)
	if err != nil {
		return "", err
	}
	if len(dataset.Records) == 0 {
		return "", fmt.Errorf("no dataset loaded")
	}

	records := dataset.Records
	summary := RevenueSummary(records)
	topProducts := TopNBy(records, ByProductName, RevenueMeasure, 10)
	topRegions := TopNBy(records, ByRegion, RevenueMeasure, 10)
	alerts := ReorderAlerts(records)

	var sb strings.Builder
	sb.WriteString("=== RETAIL DATASET REPORT ===\n\n")
	fmt.Fprintf(&sb, "Source: %s (%d records)\n", dataset.Source, len(records))
	fmt.Fprintf(&sb, "Total revenue: %s\n\n", summary.TotalRevenue.StringFixed(2))

	sb.WriteString("Revenue by category:\n")
	for _, g := range summary.ByCategory {
		fmt.Fprintf(&sb, "- %s: %s\n", g.Key, g.Total.StringFixed(2))
	}

	sb.WriteString("\nTop products by revenue:\n")
	for i, g := range topProducts {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, g.Key, g.Total.StringFixed(2))
	}

	sb.WriteString("\nTop regions by revenue:\n")
	for i, g := range topRegions {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, g.Key, g.Total.StringFixed(2))
	}

	fmt.Fprintf(&sb, "\nProducts needing reorder: %d\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&sb, "- %s (%s): stock %.0f, reorder level %.0f, supplier %s\n",
			a.ProductName, a.Region, a.StockAvailable, a.ReorderLevel, a.Supplier)
	}

	return sb.String(), nil
}
