package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(date(2024, time.January, 15)))
	assert.Equal(t, 29, DaysInMonth(date(2024, time.February, 1))) // leap year
	assert.Equal(t, 28, DaysInMonth(date(2023, time.February, 28)))
	assert.Equal(t, 30, DaysInMonth(date(2024, time.April, 30)))
}

func TestSettlementPeriod(t *testing.T) {
	t.Run("inclusive day count", func(t *testing.T) {
		period, err := SettlementPeriod(date(2024, time.March, 1), date(2024, time.March, 11))
		require.NoError(t, err)
		assert.Equal(t, date(2024, time.March, 1), period.Start)
		assert.Equal(t, date(2024, time.March, 11), period.End)
		assert.Equal(t, 11, period.Days)
	})

	t.Run("same day is a one day period", func(t *testing.T) {
		period, err := SettlementPeriod(date(2024, time.March, 5), date(2024, time.March, 5))
		require.NoError(t, err)
		assert.Equal(t, 1, period.Days)
	})

	t.Run("anchor after as-of date", func(t *testing.T) {
		_, err := SettlementPeriod(date(2024, time.March, 12), date(2024, time.March, 11))
		assert.ErrorIs(t, err, ErrClockSkew)
	})

	t.Run("spans a DST transition without losing a day", func(t *testing.T) {
		// Clocks spring forward on 2024-03-10 in this zone, so a naive
		// local-time subtraction comes out an hour (and a day) short.
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		start := time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)
		end := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
		assert.Equal(t, 10, DaysBetween(start, end))

		period, err := SettlementPeriod(start, end)
		require.NoError(t, err)
		assert.Equal(t, 11, period.Days)
	})

	t.Run("truncates time of day", func(t *testing.T) {
		anchor := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
		asOf := time.Date(2024, time.March, 2, 0, 1, 0, 0, time.UTC)
		period, err := SettlementPeriod(anchor, asOf)
		require.NoError(t, err)
		assert.Equal(t, 2, period.Days)
	})
}

func TestSettlementInterest(t *testing.T) {
	// 1000 at 12% over 11 days in a 31-day month:
	// 1000 * (12/31) * 11 / 100 = 42.5806... -> 42.58
	period, err := SettlementPeriod(date(2024, time.March, 1), date(2024, time.March, 11))
	require.NoError(t, err)
	assert.Equal(t, 42.58, SettlementInterest(1000, 12, period))

	// Divisor follows the period-start month, February here.
	febPeriod, err := SettlementPeriod(date(2023, time.February, 1), date(2023, time.February, 14))
	require.NoError(t, err)
	// 1000 * (12/28) * 14 / 100 = 60
	assert.Equal(t, 60.0, SettlementInterest(1000, 12, febPeriod))
}

func TestEstimateInterest(t *testing.T) {
	t.Run("flat 365 convention with exclusive days", func(t *testing.T) {
		// 1000 * 12 * 25 / (100 * 365) = 8.2191... -> 8.22
		estimate, err := EstimateInterest(1000, 12, date(2024, time.March, 1), date(2024, time.March, 26))
		require.NoError(t, err)
		assert.Equal(t, 8.22, estimate.Interest)
		assert.Equal(t, 25, estimate.Days)
	})

	t.Run("same day yields zero interest", func(t *testing.T) {
		estimate, err := EstimateInterest(1000, 12, date(2024, time.March, 1), date(2024, time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, 0, estimate.Days)
		assert.Equal(t, 0.0, estimate.Interest)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := EstimateInterest(1000, 12, date(2024, time.March, 2), date(2024, time.March, 1))
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestEstimateAndSettlementDisagree(t *testing.T) {
	// The two calculations use different day counts and different divisors.
	// A period that nets 42.58 under settlement nets a different figure as
	// an estimate; they must never be unified.
	period, err := SettlementPeriod(date(2024, time.March, 1), date(2024, time.March, 11))
	require.NoError(t, err)
	settled := SettlementInterest(1000, 12, period)

	estimate, err := EstimateInterest(1000, 12, date(2024, time.March, 1), date(2024, time.March, 11))
	require.NoError(t, err)

	assert.NotEqual(t, settled, estimate.Interest)
}

func TestChargePeriodNextStart(t *testing.T) {
	period := ChargePeriod{Start: date(2024, time.March, 1), End: date(2024, time.March, 11), Days: 11}
	assert.Equal(t, date(2024, time.March, 12), period.NextStart())

	// Month rollover
	period = ChargePeriod{Start: date(2024, time.March, 1), End: date(2024, time.March, 31), Days: 31}
	assert.Equal(t, date(2024, time.April, 1), period.NextStart())
}

func TestRemainingAfter(t *testing.T) {
	assert.Equal(t, 700.0, RemainingAfter(1000, 300))
	assert.Equal(t, 0.0, RemainingAfter(1000, 1000))
	assert.Equal(t, 0.0, RemainingAfter(1000, 1500)) // overpayment floors at zero
	assert.Equal(t, 0.05, RemainingAfter(0.15, 0.10))
}
