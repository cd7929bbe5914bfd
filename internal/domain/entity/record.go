package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one sales/inventory line of the dataset. Records are
// read-only inputs: analysis never mutates a Record, it derives new
// collections instead.
type Record struct {
	ID             string
	ProductID      string
	ProductName    string
	Region         string
	Category       string
	Supplier       string
	Date           time.Time // zero value means the source date was missing or unparseable
	UnitsSold      float64
	StockAvailable float64
	ReorderLevel   float64
	SalesRevenue   decimal.Decimal
}

// HasDate reports whether the record carries a usable calendar date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Dataset is the current in-memory record collection.
type Dataset struct {
	Records  []Record
	Source   string // file the records were loaded from
	LoadedAt time.Time
}
