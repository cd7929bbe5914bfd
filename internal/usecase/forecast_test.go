package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/retail-insights-bot/internal/domain/entity"
)

func monthlySale(id, name string, date time.Time, units float64) entity.Record {
	return entity.Record{
		ProductID:   id,
		ProductName: name,
		Date:        date,
		UnitsSold:   units,
	}
}

func day(year int, month time.Month) time.Time {
	return time.Date(year, month, 10, 0, 0, 0, 0, time.UTC)
}

func TestProductMonthlySeries(t *testing.T) {
	t.Run("fills gap months with zero", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.January), 10),
			monthlySale("P1", "Widget", day(2024, time.March), 5),
		}

		series := ProductMonthlySeries(records, "P1")
		require.Len(t, series, 3)

		assert.Equal(t, entity.Month{Year: 2024, Month: time.January}, series[0].Month)
		assert.Equal(t, 10.0, series[0].Units)
		assert.Equal(t, entity.Month{Year: 2024, Month: time.February}, series[1].Month)
		assert.Equal(t, 0.0, series[1].Units)
		assert.Equal(t, entity.Month{Year: 2024, Month: time.March}, series[2].Month)
		assert.Equal(t, 5.0, series[2].Units)
	})

	t.Run("sums multiple sales in the same month", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.May), 3),
			monthlySale("P1", "Widget", day(2024, time.May), 4),
		}

		series := ProductMonthlySeries(records, "P1")
		require.Len(t, series, 1)
		assert.Equal(t, 7.0, series[0].Units)
	})

	t.Run("crosses a year boundary", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2023, time.December), 8),
			monthlySale("P1", "Widget", day(2024, time.January), 6),
		}

		series := ProductMonthlySeries(records, "P1")
		require.Len(t, series, 2)
		assert.Equal(t, entity.Month{Year: 2023, Month: time.December}, series[0].Month)
		assert.Equal(t, entity.Month{Year: 2024, Month: time.January}, series[1].Month)
	})

	t.Run("matches by id or by name", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.January), 10),
			monthlySale("P2", "Gadget", day(2024, time.January), 99),
		}

		byID := ProductMonthlySeries(records, "P1")
		byName := ProductMonthlySeries(records, "Widget")
		assert.Equal(t, byID, byName)
		require.Len(t, byID, 1)
		assert.Equal(t, 10.0, byID[0].Units)
	})

	t.Run("trims the selector", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.January), 10),
		}
		series := ProductMonthlySeries(records, "  Widget  ")
		assert.Len(t, series, 1)
	})

	t.Run("unknown selector yields empty series", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.January), 10),
		}
		assert.Empty(t, ProductMonthlySeries(records, "Nonexistent"))
	})

	t.Run("empty selector matches nothing", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("", "", day(2024, time.January), 10),
		}
		assert.Empty(t, ProductMonthlySeries(records, ""))
		assert.Empty(t, ProductMonthlySeries(records, "   "))
	})

	t.Run("drops records without a usable date", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2024, time.January), 10),
			monthlySale("P1", "Widget", time.Time{}, 99),
		}

		series := ProductMonthlySeries(records, "P1")
		require.Len(t, series, 1)
		assert.Equal(t, 10.0, series[0].Units)
	})

	t.Run("series is contiguous", func(t *testing.T) {
		records := []entity.Record{
			monthlySale("P1", "Widget", day(2023, time.November), 1),
			monthlySale("P1", "Widget", day(2024, time.April), 1),
		}

		series := ProductMonthlySeries(records, "P1")
		require.Len(t, series, 6)
		for i := 1; i < len(series); i++ {
			assert.Equal(t, series[i-1].Month.Next(), series[i].Month)
		}
	})
}

func TestMovingAverageForecast(t *testing.T) {
	jan := entity.Month{Year: 2024, Month: time.January}
	series := entity.MonthlySeries{
		{Month: jan, Units: 10},
		{Month: jan.Next(), Units: 20},
		{Month: jan.Next().Next(), Units: 30},
	}

	t.Run("flat projection of the trailing average", func(t *testing.T) {
		forecast, err := MovingAverageForecast(series, 3, 3)
		require.NoError(t, err)
		require.Len(t, forecast, 3)

		assert.Equal(t, entity.Month{Year: 2024, Month: time.April}, forecast[0].Month)
		assert.Equal(t, entity.Month{Year: 2024, Month: time.May}, forecast[1].Month)
		assert.Equal(t, entity.Month{Year: 2024, Month: time.June}, forecast[2].Month)
		for _, p := range forecast {
			assert.Equal(t, 20.0, p.Units)
		}
	})

	t.Run("window shorter than series uses the tail", func(t *testing.T) {
		forecast, err := MovingAverageForecast(series, 2, 1)
		require.NoError(t, err)
		require.Len(t, forecast, 1)
		assert.Equal(t, 25.0, forecast[0].Units)
	})

	t.Run("window longer than series averages what exists", func(t *testing.T) {
		short := entity.MonthlySeries{{Month: jan, Units: 5}}
		forecast, err := MovingAverageForecast(short, 12, 2)
		require.NoError(t, err)
		require.Len(t, forecast, 2)
		assert.Equal(t, 5.0, forecast[0].Units)
		assert.Equal(t, 5.0, forecast[1].Units)
	})

	t.Run("projection crosses a year boundary", func(t *testing.T) {
		dec := entity.MonthlySeries{{Month: entity.Month{Year: 2024, Month: time.December}, Units: 7}}
		forecast, err := MovingAverageForecast(dec, 1, 2)
		require.NoError(t, err)
		require.Len(t, forecast, 2)
		assert.Equal(t, entity.Month{Year: 2025, Month: time.January}, forecast[0].Month)
		assert.Equal(t, entity.Month{Year: 2025, Month: time.February}, forecast[1].Month)
	})

	t.Run("empty series yields empty forecast without error", func(t *testing.T) {
		forecast, err := MovingAverageForecast(nil, 3, 3)
		require.NoError(t, err)
		assert.Empty(t, forecast)
	})

	t.Run("rejects window below one", func(t *testing.T) {
		_, err := MovingAverageForecast(series, 0, 3)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("rejects periods below one", func(t *testing.T) {
		_, err := MovingAverageForecast(series, 3, 0)
		assert.ErrorIs(t, err, ErrInvalidPeriods)
	})
}

func TestMonthNext(t *testing.T) {
	m := entity.Month{Year: 2023, Month: time.December}
	next := m.Next()
	assert.Equal(t, entity.Month{Year: 2024, Month: time.January}, next)

	assert.Equal(t, entity.Month{Year: 2024, Month: time.February}, next.Next())
}
