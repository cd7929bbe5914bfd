package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

func saleRecord(id, name, region, category string, revenue float64) entity.Record {
	return entity.Record{
		ProductID:    id,
		ProductName:  name,
		Region:       region,
		Category:     category,
		SalesRevenue: decimal.NewFromFloat(revenue),
	}
}

func TestTopNBy(t *testing.T) {
	records := []entity.Record{
		saleRecord("P1", "Widget", "North", "Tools", 100),
		saleRecord("P2", "Gadget", "South", "Tools", 250),
		saleRecord("P1", "Widget", "South", "Tools", 50),
		saleRecord("P3", "Gizmo", "North", "Toys", 80),
	}

	t.Run("orders groups by total descending", func(t *testing.T) {
		top := TopNBy(records, ByProductName, RevenueMeasure, 3)
		require.Len(t, top, 3)

		assert.Equal(t, "Gadget", top[0].Key)
		assert.True(t, top[0].Total.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, "Widget", top[1].Key)
		assert.True(t, top[1].Total.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, "Gizmo", top[2].Key)
	})

	t.Run("truncates to n", func(t *testing.T) {
		top := TopNBy(records, ByProductName, RevenueMeasure, 1)
		require.Len(t, top, 1)
		assert.Equal(t, "Gadget", top[0].Key)
	})

	t.Run("n larger than group count returns every group", func(t *testing.T) {
		top := TopNBy(records, ByProductName, RevenueMeasure, 100)
		assert.Len(t, top, 3)
	})

	t.Run("equal totals keep first encounter order", func(t *testing.T) {
		tied := []entity.Record{
			saleRecord("A", "Alpha", "", "", 50),
			saleRecord("B", "Beta", "", "", 50),
			saleRecord("C", "Gamma", "", "", 50),
		}
		top := TopNBy(tied, ByProductName, RevenueMeasure, 3)
		require.Len(t, top, 3)
		assert.Equal(t, "Alpha", top[0].Key)
		assert.Equal(t, "Beta", top[1].Key)
		assert.Equal(t, "Gamma", top[2].Key)
	})

	t.Run("empty input returns empty result", func(t *testing.T) {
		assert.Empty(t, TopNBy(nil, ByProductName, RevenueMeasure, 5))
	})

	t.Run("non positive n returns empty result", func(t *testing.T) {
		assert.Empty(t, TopNBy(records, ByProductName, RevenueMeasure, 0))
		assert.Empty(t, TopNBy(records, ByProductName, RevenueMeasure, -1))
	})
}

func TestByCategoryMapsEmptyToUnspecified(t *testing.T) {
	r := saleRecord("P1", "Widget", "North", "", 10)
	assert.Equal(t, UnspecifiedCategory, ByCategory(r))

	r.Category = "Tools"
	assert.Equal(t, "Tools", ByCategory(r))
}

func TestReorderAlerts(t *testing.T) {
	records := []entity.Record{
		{ProductID: "P1", ProductName: "Widget", Region: "North", StockAvailable: 5, ReorderLevel: 10, Supplier: "Acme"},
		{ProductID: "P2", ProductName: "Gadget", Region: "South", StockAvailable: 50, ReorderLevel: 10},
		{ProductID: "P3", ProductName: "Gizmo", Region: "East", StockAvailable: 10, ReorderLevel: 10},
	}

	alerts := ReorderAlerts(records)
	require.Len(t, alerts, 2)

	// stock equal to the reorder level still alerts
	assert.Equal(t, "P1", alerts[0].ProductID)
	assert.Equal(t, "P3", alerts[1].ProductID)
	assert.Equal(t, "Acme", alerts[0].Supplier)

	// recomputing over the same records yields the same alerts
	again := ReorderAlerts(records)
	assert.Equal(t, alerts, again)
}

func TestReorderAlertsEmpty(t *testing.T) {
	assert.Empty(t, ReorderAlerts(nil))
}

func TestRevenueSummary(t *testing.T) {
	records := []entity.Record{
		saleRecord("P1", "Widget", "North", "Tools", 100),
		saleRecord("P2", "Gadget", "South", "", 40),
		saleRecord("P3", "Gizmo", "East", "Toys", 60),
	}

	summary := RevenueSummary(records)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(200)))

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "Tools", summary.ByCategory[0].Key)
	assert.Equal(t, "Toys", summary.ByCategory[1].Key)
	assert.Equal(t, UnspecifiedCategory, summary.ByCategory[2].Key)
}

func TestMonthlySales(t *testing.T) {
	jan := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

	records := []entity.Record{
		{ProductID: "P1", Date: mar, UnitsSold: 5, SalesRevenue: decimal.NewFromInt(50)},
		{ProductID: "P2", Date: jan, UnitsSold: 10, SalesRevenue: decimal.NewFromInt(100)},
		{ProductID: "P3", UnitsSold: 99, SalesRevenue: decimal.NewFromInt(999)}, // no date
		{ProductID: "P4", Date: jan, UnitsSold: 2, SalesRevenue: decimal.NewFromInt(20)},
	}

	rows := MonthlySales(records)
	require.Len(t, rows, 2)

	assert.Equal(t, entity.Month{Year: 2024, Month: time.January}, rows[0].Month)
	assert.Equal(t, 12.0, rows[0].Units)
	assert.True(t, rows[0].Revenue.Equal(decimal.NewFromInt(120)))

	assert.Equal(t, entity.Month{Year: 2024, Month: time.March}, rows[1].Month)
	assert.Equal(t, 5.0, rows[1].Units)
}

func TestLowestStock(t *testing.T) {
	records := []entity.Record{
		{ProductName: "Widget", Region: "North", StockAvailable: 30},
		{ProductName: "Widget", Region: "South", StockAvailable: 4},
		{ProductName: "Gadget", Region: "North", StockAvailable: 12},
		{ProductName: "Gizmo", Region: "East", StockAvailable: 2},
	}

	levels := LowestStock(records, 2)
	require.Len(t, levels, 2)

	// the per-product minimum across regions wins
	assert.Equal(t, "Gizmo", levels[0].ProductName)
	assert.Equal(t, 2.0, levels[0].Stock)
	assert.Equal(t, "Widget", levels[1].ProductName)
	assert.Equal(t, 4.0, levels[1].Stock)
}
