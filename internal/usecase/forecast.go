package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
)

// Parameter-contract violations are the only inputs the forecaster
// rejects; every data-quality issue resolves to a documented default.
var (
	ErrInvalidWindow  = errors.New("moving average window must be at least 1")
	ErrInvalidPeriods = errors.New("forecast periods must be at least 1")
)

// MatchesProduct reports whether a record belongs to the selected
// product. The selector matches the product identifier or the display
// name, whichever compares equal after trimming.
func MatchesProduct(r entity.Record, selector string) bool {
	q := strings.TrimSpace(selector)
	if q == "" {
		return false
	}
	return r.ProductID == q || r.ProductName == q
}

// ProductMonthlySeries buckets the selected product's sales by
// calendar month and fills every month between the first and last
// observed one with zero, producing a contiguous ascending series.
// Records without a usable date are dropped (tolerant-parsing policy).
// A selector matching nothing yields an empty series, not an error.
func ProductMonthlySeries(records []entity.Record, selector string) entity.MonthlySeries {
	totals := make(map[entity.Month]float64)
	var first, last entity.Month
	seen := false

	for _, r := range records {
		if !MatchesProduct(r, selector) || !r.HasDate() {
			continue
		}
		m := entity.MonthOf(r.Date)
		totals[m] += r.UnitsSold
		if !seen {
			first, last = m, m
			seen = true
			continue
		}
		if m.Before(first) {
			first = m
		}
		if last.Before(m) {
			last = m
		}
	}

	if !seen {
		return nil
	}

	var series entity.MonthlySeries
	for m := first; ; m = m.Next() {
		series = append(series, entity.MonthlyPoint{Month: m, Units: totals[m]})
		if m == last {
			break
		}
	}
	return series
}

// MovingAverageForecast projects a trailing simple moving average flat
// over the requested horizon. The average is taken over the last
// `window` observed values, or over however many exist when the series
// is shorter (minimum window of 1). The projection starts the month
// after the series ends and is contiguous. An empty series yields an
// empty forecast with no error.
func MovingAverageForecast(series entity.MonthlySeries, window, periods int) (entity.ForecastSeries, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}
	if periods < 1 {
		return nil, ErrInvalidPeriods
	}
	if len(series) == 0 {
		return nil, nil
	}

	start := len(series) - window
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, p := range series[start:] {
		sum += p.Units
	}
	value := sum / float64(len(series)-start)

	forecast := make(entity.ForecastSeries, 0, periods)
	m := series.LastMonth()
	for i := 0; i < periods; i++ {
		m = m.Next()
		forecast = append(forecast, entity.ForecastPoint{Month: m, Units: value})
	}
	return forecast, nil
}

// ForecastUseCase builds per-product monthly series and projections
// from the current dataset.
type ForecastUseCase interface {
	// MonthlySeries returns the selected product's contiguous monthly
	// series. An unknown product yields an empty series.
	MonthlySeries(ctx context.Context, selector string) (entity.MonthlySeries, error)

	// Forecast returns the series and its flat moving-average
	// projection for the requested window and horizon.
	Forecast(ctx context.Context, selector string, window, periods int) (entity.MonthlySeries, entity.ForecastSeries, error)
}

type forecastUseCase struct {
	recordRepo repository.RecordRepository
}

// NewForecastUseCase builds the forecast use case.
func NewForecastUseCase(recordRepo repository.RecordRepository) ForecastUseCase {
	return &forecastUseCase{recordRepo: recordRepo}
}

func (u *forecastUseCase) MonthlySeries(ctx context.Context, selector string) (entity.MonthlySeries, error) {
	records, err := u.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ProductMonthlySeries(records, selector), nil
}

func (u *forecastUseCase) Forecast(ctx context.Context, selector string, window, periods int) (entity.MonthlySeries, entity.ForecastSeries, error) {
	series, err := u.MonthlySeries(ctx, selector)
	if err != nil {
		return nil, nil, err
	}
	forecast, err := MovingAverageForecast(series, window, periods)
	if err != nil {
		return nil, nil, err
	}
	return series, forecast, nil
}
