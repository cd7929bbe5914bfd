package entity

import (
	"fmt"
	"time"
)

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month a timestamp falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthlyPoint is one month's total units for a product.
type MonthlyPoint struct {
	Month Month
	Units float64
}

// MonthlySeries is an ordered, contiguous monthly series: every
// calendar month between the first and last entry appears exactly
// once, months without sales carry zero.
type MonthlySeries []MonthlyPoint

// LastMonth returns the final month of the series. Only valid when
// the series is non-empty.
func (s MonthlySeries) LastMonth() Month {
	return s[len(s)-1].Month
}

// ForecastPoint is one projected month.
type ForecastPoint struct {
	Month Month
	Units float64
}

// ForecastSeries is an ordered projection that starts the month after
// the observed series ends. The projection is flat: every point holds
// the same value.
type ForecastSeries []ForecastPoint
