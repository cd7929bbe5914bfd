package repository

import (
	"context"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

// Exporter writes derived data to spreadsheet files and returns the
// written path.
type Exporter interface {
	// ExportRecords writes the cleaned dataset.
	ExportRecords(ctx context.Context, records []entity.Record, path string) (string, error)

	// ExportAlerts writes the reorder alert rows.
	ExportAlerts(ctx context.Context, alerts []entity.AlertRow, path string) (string, error)

	// ExportForecast writes the observed series and its projection.
	ExportForecast(ctx context.Context, selector string, series entity.MonthlySeries, forecast entity.ForecastSeries, path string) (string, error)
}

// ChartRenderer draws report charts to image files, returning a map
// from chart name to file path.
type ChartRenderer interface {
	RenderCharts(ctx context.Context, records []entity.Record, dir string) (map[string]string, error)
}
