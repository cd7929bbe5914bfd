package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

type excelParser struct{}

// NewExcelParser builds the spreadsheet dataset parser.
func NewExcelParser() repository.DatasetParser {
	return &excelParser{}
}

func (e *excelParser) ParseRecords(ctx context.Context, filePath string) ([]entity.Record, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

func (e *excelParser) ParseRecordsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Record, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

func (e *excelParser) parseExcelFile(f *excelize.File) ([]entity.Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("excel file has no data rows")
	}

	header := rows[0]
	columnMap := mapColumns(header)
	log.Printf("🗺️ Column mapping from header: %v", columnMap)

	if _, hasID := columnMap["product_id"]; !hasID {
		if _, hasName := columnMap["product_name"]; !hasName {
			return nil, fmt.Errorf("missing required column: product_id or product_name")
		}
	}

	var records []entity.Record
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		record := entity.Record{
			ID:             uuid.New().String(),
			ProductID:      cellText(row, columnMap, "product_id"),
			ProductName:    cellText(row, columnMap, "product_name"),
			Region:         cellText(row, columnMap, "region"),
			Category:       cellText(row, columnMap, "category"),
			Supplier:       cellText(row, columnMap, "supplier_name"),
			Date:           coerceDate(cellText(row, columnMap, "date")),
			UnitsSold:      coerceNumeric(cellText(row, columnMap, "units_sold")),
			StockAvailable: coerceNumeric(cellText(row, columnMap, "stock_available")),
			ReorderLevel:   coerceNumeric(cellText(row, columnMap, "reorder_level")),
			SalesRevenue:   coerceDecimal(cellText(row, columnMap, "sales_revenue")),
		}

		// A row with no way to identify the product is noise
		if record.ProductID == "" && record.ProductName == "" {
			log.Printf("⚠️ Row %d: no product id or name - skipping", i)
			continue
		}

		records = append(records, record)
	}

	log.Printf("📦 Total records parsed: %d", len(records))

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid records found in excel file (%d rows read)", len(rows)-1)
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellText(row []string, columnMap map[string]int, field string) string {
	idx, ok := columnMap[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeHeader strips, lowercases and underscores a column name so
// "Product Name", "product name" and "PRODUCT_NAME" all map the same.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// mapColumns resolves header cells to dataset fields, tolerating
// common naming variants.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	for i, col := range header {
		switch name := normalizeHeader(col); {
		case matchesAny(name, "product_id", "productid", "id", "sku"):
			columnMap["product_id"] = i
		case matchesAny(name, "product_name", "product", "name", "item", "item_name"):
			columnMap["product_name"] = i
		case matchesAny(name, "region", "city", "location", "area"):
			columnMap["region"] = i
		case matchesAny(name, "category", "type", "product_category"):
			columnMap["category"] = i
		case matchesAny(name, "date", "sale_date", "order_date", "transaction_date"):
			columnMap["date"] = i
		case matchesAny(name, "units_sold", "units", "quantity", "qty", "quantity_sold"):
			columnMap["units_sold"] = i
		case matchesAny(name, "sales_revenue", "revenue", "sales", "amount", "total"):
			columnMap["sales_revenue"] = i
		case matchesAny(name, "stock_available", "stock", "on_hand", "available"):
			columnMap["stock_available"] = i
		case matchesAny(name, "reorder_level", "reorder", "reorder_point", "min_stock"):
			columnMap["reorder_level"] = i
		case matchesAny(name, "supplier_name", "supplier", "vendor", "vendor_name"):
			columnMap["supplier_name"] = i
		}
	}
	return columnMap
}

func matchesAny(name string, candidates ...string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// coerceNumeric parses a numeric cell, tolerating currency symbols,
// thousands separators and stray spaces. Unparseable values default
// to zero rather than failing the row.
func coerceNumeric(s string) float64 {
	s = cleanNumeric(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceDecimal is coerceNumeric for money fields.
func coerceDecimal(s string) decimal.Decimal {
	s = cleanNumeric(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func cleanNumeric(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, junk := range []string{",", " ", "$", "€", "£", "₹", "usd", "inr", "rs."} {
		s = strings.ReplaceAll(s, junk, "")
	}
	return s
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	"2/1/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// coerceDate parses a date cell against the known layouts, falling
// back to the excel serial number representation. Unparseable dates
// resolve to the zero time, which downstream treats as missing.
func coerceDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	// excelize returns unformatted date cells as serial numbers
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t
		}
	}

	return time.Time{}
}
