package charts

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
	"github.com/yourusername/retail-insights-bot/internal/usecase"
)

type chartRenderer struct{}

// NewChartRenderer builds the PNG chart renderer.
func NewChartRenderer() repository.ChartRenderer {
	return &chartRenderer{}
}

// RenderCharts draws the report charts into dir and returns a map from
// chart name to file path. Charts that have too little data to draw
// are skipped rather than failing the batch.
func (c *chartRenderer) RenderCharts(ctx context.Context, records []entity.Record, dir string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts directory: %w", err)
	}

	paths := make(map[string]string)

	if p, err := c.monthlyUnitsChart(records, dir); err != nil {
		log.Printf("⚠️ monthly units chart skipped: %v", err)
	} else if p != "" {
		paths["monthly_units_sold"] = p
	}

	if p, err := c.topProductsChart(records, dir); err != nil {
		log.Printf("⚠️ top products chart skipped: %v", err)
	} else if p != "" {
		paths["top_products_revenue"] = p
	}

	if p, err := c.regionSalesChart(records, dir); err != nil {
		log.Printf("⚠️ region sales chart skipped: %v", err)
	} else if p != "" {
		paths["region_sales"] = p
	}

	if p, err := c.lowStockChart(records, dir); err != nil {
		log.Printf("⚠️ low stock chart skipped: %v", err)
	} else if p != "" {
		paths["low_stock_products"] = p
	}

	if p, err := c.reorderStatusChart(records, dir); err != nil {
		log.Printf("⚠️ reorder status chart skipped: %v", err)
	} else if p != "" {
		paths["reorder_status"] = p
	}

	return paths, nil
}

func (c *chartRenderer) monthlyUnitsChart(records []entity.Record, dir string) (string, error) {
	rows := usecase.MonthlySales(records)
	if len(rows) < 2 {
		return "", nil // a line needs two points
	}

	xs := make([]time.Time, len(rows))
	ys := make([]float64, len(rows))
	for i, row := range rows {
		xs[i] = row.Month.Time()
		ys[i] = row.Units
	}

	graph := chart.Chart{
		Title: "Monthly Units Sold",
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		Series: []chart.Series{
			chart.TimeSeries{XValues: xs, YValues: ys},
		},
	}
	return render(graph.Render, dir, "monthly_units_sold.png")
}

func (c *chartRenderer) topProductsChart(records []entity.Record, dir string) (string, error) {
	top := usecase.TopNBy(records, usecase.ByProductName, usecase.RevenueMeasure, 10)
	if len(top) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, len(top))
	for i, g := range top {
		bars[i] = chart.Value{Label: g.Key, Value: g.Total.InexactFloat64()}
	}

	graph := chart.BarChart{
		Title:    "Top 10 Products by Revenue",
		Height:   512,
		BarWidth: 40,
		Bars:     bars,
	}
	return render(graph.Render, dir, "top_products_revenue.png")
}

func (c *chartRenderer) regionSalesChart(records []entity.Record, dir string) (string, error) {
	regions := usecase.TopNBy(records, usecase.ByRegion, usecase.RevenueMeasure, len(records))
	if len(regions) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, len(regions))
	for i, g := range regions {
		bars[i] = chart.Value{Label: g.Key, Value: g.Total.InexactFloat64()}
	}

	graph := chart.BarChart{
		Title:    "Sales by Region",
		Height:   512,
		BarWidth: 40,
		Bars:     bars,
	}
	return render(graph.Render, dir, "region_sales.png")
}

func (c *chartRenderer) lowStockChart(records []entity.Record, dir string) (string, error) {
	levels := usecase.LowestStock(records, 20)
	if len(levels) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, len(levels))
	for i, l := range levels {
		bars[i] = chart.Value{Label: l.ProductName, Value: l.Stock}
	}

	graph := chart.BarChart{
		Title:    "Lowest Stock by Product",
		Height:   512,
		BarWidth: 30,
		Bars:     bars,
	}
	return render(graph.Render, dir, "low_stock_products.png")
}

func (c *chartRenderer) reorderStatusChart(records []entity.Record, dir string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	needReorder := len(usecase.ReorderAlerts(records))
	ok := len(records) - needReorder

	var values []chart.Value
	if needReorder > 0 {
		values = append(values, chart.Value{Label: "Need Reorder", Value: float64(needReorder)})
	}
	if ok > 0 {
		values = append(values, chart.Value{Label: "OK", Value: float64(ok)})
	}
	if len(values) == 0 {
		return "", nil
	}

	graph := chart.PieChart{
		Title:  "Reorder Status",
		Width:  512,
		Height: 512,
		Values: values,
	}
	return render(graph.Render, dir, "reorder_status.png")
}

func render(renderFn func(chart.RendererProvider, io.Writer) error, dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := renderFn(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return path, nil
}
