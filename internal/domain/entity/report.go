package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupTotal is one leaderboard row: a group key and its summed measure.
type GroupTotal struct {
	Key   string
	Total decimal.Decimal
}

// AlertRow is the reorder view of a record: stock at or below the
// reorder level, with the supplier needed to act.
type AlertRow struct {
	ProductID      string
	ProductName    string
	Region         string
	StockAvailable float64
	ReorderLevel   float64
	Supplier       string
}

// RevenueSummary holds total revenue and the per-category breakdown,
// ordered by revenue descending.
type RevenueSummary struct {
	TotalRevenue decimal.Decimal
	ByCategory   []GroupTotal
}

// MonthlySalesRow is the overall (all products) monthly total.
type MonthlySalesRow struct {
	Month   Month
	Units   float64
	Revenue decimal.Decimal
}

// StockLevel is a product's lowest stock across regions.
type StockLevel struct {
	ProductName string
	Stock       float64
}

// MissingReport counts records with a missing value per field.
type MissingReport struct {
	Date         int
	ProductID    int
	ProductName  int
	Region       int
	Category     int
	Supplier     int
	TotalRecords int
}

// ReportEntry is one line of the report history log.
type ReportEntry struct {
	ID        string
	UserID    int64
	Kind      string // "summary", "forecast", "alerts", "charts", "export", "clean"
	Params    string
	Summary   string
	CreatedAt time.Time
}
