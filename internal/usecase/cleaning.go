package usecase

import (
	"context"
	"strings"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// MissingValues counts records with a missing value per field. Numeric
// fields are not counted: the parser already defaults them to zero.
func MissingValues(records []entity.Record) entity.MissingReport {
	report := entity.MissingReport{TotalRecords: len(records)}
	for _, r := range records {
		if !r.HasDate() {
			report.Date++
		}
		if r.ProductID == "" {
			report.ProductID++
		}
		if r.ProductName == "" {
			report.ProductName++
		}
		if r.Region == "" {
			report.Region++
		}
		if r.Category == "" {
			report.Category++
		}
		if r.Supplier == "" {
			report.Supplier++
		}
	}
	return report
}

// DropMissingDates returns the records that carry a usable date.
func DropMissingDates(records []entity.Record) []entity.Record {
	kept := make([]entity.Record, 0, len(records))
	for _, r := range records {
		if r.HasDate() {
			kept = append(kept, r)
		}
	}
	return kept
}

// RemoveDuplicates keeps the first record per product identifier and
// drops the rest. Records without a product identifier are kept.
func RemoveDuplicates(records []entity.Record) []entity.Record {
	seen := make(map[string]bool, len(records))
	kept := make([]entity.Record, 0, len(records))
	for _, r := range records {
		if r.ProductID != "" {
			if seen[r.ProductID] {
				continue
			}
			seen[r.ProductID] = true
		}
		kept = append(kept, r)
	}
	return kept
}

// NormalizeText trims text fields and collapses internal runs of
// whitespace to a single space, returning new records.
func NormalizeText(records []entity.Record) []entity.Record {
	out := make([]entity.Record, len(records))
	for i, r := range records {
		r.ProductName = collapseSpaces(r.ProductName)
		r.Region = collapseSpaces(r.Region)
		r.Category = collapseSpaces(r.Category)
		r.Supplier = collapseSpaces(r.Supplier)
		out[i] = r
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleaningUseCase applies dataset cleanup operations in place of the
// stored collection. Each operation derives a new record slice and
// replaces the dataset; individual records are never mutated.
type CleaningUseCase interface {
	// MissingValues reports per-field missing counts.
	MissingValues(ctx context.Context) (entity.MissingReport, error)

	// DropMissingDates removes records without a usable date and
	// returns how many were dropped.
	DropMissingDates(ctx context.Context) (int, error)

	// RemoveDuplicates dedupes by product identifier, keeping the
	// first occurrence, and returns how many were dropped.
	RemoveDuplicates(ctx context.Context) (int, error)

	// NormalizeText cleans whitespace in text fields.
	NormalizeText(ctx context.Context) error
}

type cleaningUseCase struct {
	recordRepo repository.RecordRepository
}

// NewCleaningUseCase builds the cleaning use case.
func NewCleaningUseCase(recordRepo repository.RecordRepository) CleaningUseCase {
	return &cleaningUseCase{recordRepo: recordRepo}
}

func (u *cleaningUseCase) MissingValues(ctx context.Context) (entity.MissingReport, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return entity.MissingReport{}, err
	}
	return MissingValues(records), nil
}

func (u *cleaningUseCase) DropMissingDates(ctx context.Context) (int, error) {
	return u.replaceWith(ctx, DropMissingDates)
}

func (u *cleaningUseCase) RemoveDuplicates(ctx context.Context) (int, error) {
	return u.replaceWith(ctx, RemoveDuplicates)
}

func (u *cleaningUseCase) NormalizeText(ctx context.Context) error {
	_, err := u.replaceWith(ctx, NormalizeText)
	return err
}

// replaceWith swaps the dataset for the transformed copy and returns
// how many records the transform dropped.
func (u *cleaningUseCase) replaceWith(ctx context.Context, transform func([]entity.Record) []entity.Record) (int, error) {
	dataset, err := u.recordRepo.GetDataset(ctx)
	if err != nil {
		return 0, err
	}

	cleaned := transform(dataset.Records)
	dropped := len(dataset.Records) - len(cleaned)

	next := entity.Dataset{
		Records:  cleaned,
		Source:   dataset.Source,
		LoadedAt: dataset.LoadedAt,
	}
	if err := u.recordRepo.ReplaceAll(ctx, next); err != nil {
		return 0, err
	}
	return dropped, nil
}
