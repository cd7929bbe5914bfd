package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// UnspecifiedCategory is the sentinel group for records with an empty
// category field. Missing category is a data-quality issue, not an
// error: such records form their own group instead of being dropped.
const UnspecifiedCategory = "Unspecified"

// KeyFunc extracts the grouping key from a record.
type KeyFunc func(entity.Record) string

// MeasureFunc extracts the summed measure from a record.
type MeasureFunc func(entity.Record) decimal.Decimal

// ByProductName groups records by product display name.
func ByProductName(r entity.Record) string { return r.ProductName }

// ByRegion groups records by region.
func ByRegion(r entity.Record) string { return r.Region }

// ByCategory groups records by category, mapping an empty category to
// the Unspecified sentinel.
func ByCategory(r entity.Record) string {
	if r.Category == "" {
		return UnspecifiedCategory
	}
	return r.Category
}

// RevenueMeasure sums sales revenue.
func RevenueMeasure(r entity.Record) decimal.Decimal { return r.SalesRevenue }

// UnitsMeasure sums units sold.
func UnitsMeasure(r entity.Record) decimal.Decimal { return decimal.NewFromFloat(r.UnitsSold) }

// TopNBy groups records by key, sums measure per group and returns the
// first n groups ordered by total descending. Groups with equal totals
// keep their first-encounter order. n larger than the group count
// returns every group; empty input returns an empty result.
func TopNBy(records []entity.Record, key KeyFunc, measure MeasureFunc, n int) []entity.GroupTotal {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	totals := make(map[string]decimal.Decimal, len(records))
	var order []string
	for _, r := range records {
		k := key(r)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(measure(r))
	}

	groups := make([]entity.GroupTotal, 0, len(order))
	for _, k := range order {
		groups = append(groups, entity.GroupTotal{Key: k, Total: totals[k]})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})

	if n < len(groups) {
		groups = groups[:n]
	}
	return groups
}

// ReorderAlerts returns every record whose stock is at or below its
// reorder level, in the original record order.
func ReorderAlerts(records []entity.Record) []entity.AlertRow {
	var alerts []entity.AlertRow
	for _, r := range records {
		if r.StockAvailable <= r.ReorderLevel {
			alerts = append(alerts, entity.AlertRow{
				ProductID:      r.ProductID,
				ProductName:    r.ProductName,
				Region:         r.Region,
				StockAvailable: r.StockAvailable,
				ReorderLevel:   r.ReorderLevel,
				Supplier:       r.Supplier,
			})
		}
	}
	return alerts
}

// RevenueSummary totals revenue across all records and breaks it down
// by category, ordered by revenue descending.
func RevenueSummary(records []entity.Record) entity.RevenueSummary {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.SalesRevenue)
	}
	return entity.RevenueSummary{
		TotalRevenue: total,
		ByCategory:   TopNBy(records, ByCategory, RevenueMeasure, len(records)),
	}
}

// MonthlySales sums units and revenue per observed calendar month
// across the whole dataset, ascending. Records without a usable date
// are skipped; months with no sales do not appear.
func MonthlySales(records []entity.Record) []entity.MonthlySalesRow {
	type bucket struct {
		units   float64
		revenue decimal.Decimal
	}
	buckets := make(map[entity.Month]*bucket)
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		m := entity.MonthOf(r.Date)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[m] = b
		}
		b.units += r.UnitsSold
		b.revenue = b.revenue.Add(r.SalesRevenue)
	}

	rows := make([]entity.MonthlySalesRow, 0, len(buckets))
	for m, b := range buckets {
		rows = append(rows, entity.MonthlySalesRow{Month: m, Units: b.units, Revenue: b.revenue})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Month.Before(rows[j].Month)
	})
	return rows
}

// LowestStock returns the n products with the lowest stock, taking the
// minimum across regions per product, ordered ascending by stock.
func LowestStock(records []entity.Record, n int) []entity.StockLevel {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	minStock := make(map[string]float64)
	var order []string
	for _, r := range records {
		cur, seen := minStock[r.ProductName]
		if !seen {
			order = append(order, r.ProductName)
			minStock[r.ProductName] = r.StockAvailable
			continue
		}
		if r.StockAvailable < cur {
			minStock[r.ProductName] = r.StockAvailable
		}
	}

	levels := make([]entity.StockLevel, 0, len(order))
	for _, name := range order {
		levels = append(levels, entity.StockLevel{ProductName: name, Stock: minStock[name]})
	}
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Stock < levels[j].Stock
	})

	if n < len(levels) {
		levels = levels[:n]
	}
	return levels
}

// AnalyticsUseCase exposes the aggregate reports over the current
// dataset.
type AnalyticsUseCase interface {
	// TopProductsByRevenue returns the top n products by summed revenue.
	TopProductsByRevenue(ctx context.Context, n int) ([]entity.GroupTotal, error)

	// TopRegionsByRevenue returns the top n regions by summed revenue.
	TopRegionsByRevenue(ctx context.Context, n int) ([]entity.GroupTotal, error)

	// ReorderAlerts returns records needing reorder, in dataset order.
	ReorderAlerts(ctx context.Context) ([]entity.AlertRow, error)

	// RevenueSummary returns total and per-category revenue.
	RevenueSummary(ctx context.Context) (entity.RevenueSummary, error)

	// MonthlySales returns overall per-month units and revenue.
	MonthlySales(ctx context.Context) ([]entity.MonthlySalesRow, error)

	// LowestStock returns the n products with the lowest stock.
	LowestStock(ctx context.Context, n int) ([]entity.StockLevel, error)
}

type analyticsUseCase struct {
	recordRepo repository.RecordRepository
}

// NewAnalyticsUseCase builds the analytics use case.
func NewAnalyticsUseCase(recordRepo repository.RecordRepository) AnalyticsUseCase {
	return &analyticsUseCase{recordRepo: recordRepo}
}

func (u *analyticsUseCase) TopProductsByRevenue(ctx context.Context, n int) ([]entity.GroupTotal, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return TopNBy(records, ByProductName, RevenueMeasure, n), nil
}

func (u *analyticsUseCase) TopRegionsByRevenue(ctx context.Context, n int) ([]entity.GroupTotal, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return TopNBy(records, ByRegion, RevenueMeasure, n), nil
}

func (u *analyticsUseCase) ReorderAlerts(ctx context.Context) ([]entity.AlertRow, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ReorderAlerts(records), nil
}

func (u *analyticsUseCase) RevenueSummary(ctx context.Context) (entity.RevenueSummary, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return entity.RevenueSummary{}, err
	}
	return RevenueSummary(records), nil
}

func (u *analyticsUseCase) MonthlySales(ctx context.Context) ([]entity.MonthlySalesRow, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlySales(records), nil
}

func (u *analyticsUseCase) LowestStock(ctx context.Context, n int) ([]entity.StockLevel, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return LowestStock(records, n), nil
}
