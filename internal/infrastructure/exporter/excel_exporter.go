package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

type excelExporter struct{}

// NewExcelExporter builds the spreadsheet exporter.
func NewExcelExporter() repository.Exporter {
	return &excelExporter{}
}

func (e *excelExporter) ExportRecords(ctx context.Context, records []entity.Record, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{
		"Product ID", "Product Name", "Region", "Category", "Date",
		"Units Sold", "Sales Revenue", "Stock Available", "Reorder Level", "Supplier Name",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		date := ""
		if r.HasDate() {
			date = r.Date.Format("2006-01-02")
		}
		row := []interface{}{
			r.ProductID, r.ProductName, r.Region, r.Category, date,
			r.UnitsSold, r.SalesRevenue.InexactFloat64(), r.StockAvailable, r.ReorderLevel, r.Supplier,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return save(f, path)
}

func (e *excelExporter) ExportAlerts(ctx context.Context, alerts []entity.AlertRow, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{
		"Product ID", "Product Name", "Region", "Stock Available", "Reorder Level", "Supplier Name",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, a := range alerts {
		row := []interface{}{
			a.ProductID, a.ProductName, a.Region, a.StockAvailable, a.ReorderLevel, a.Supplier,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return save(f, path)
}

func (e *excelExporter) ExportForecast(ctx context.Context, selector string, series entity.MonthlySeries, forecast entity.ForecastSeries, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Month", "Units", "Kind"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellValue(sheet, "E1", fmt.Sprintf("Product: %s", selector)); err != nil {
		return "", fmt.Errorf("failed to write product label: %w", err)
	}

	line := 2
	for _, p := range series {
		row := []interface{}{p.Month.String(), p.Units, "observed"}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", line, err)
		}
		line++
	}
	for _, p := range forecast {
		row := []interface{}{p.Month.String(), p.Units, "forecast"}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", line, err)
		}
		line++
	}

	return save(f, path)
}

func save(f *excelize.File, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
