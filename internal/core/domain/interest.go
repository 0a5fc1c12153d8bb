package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
)

// StartOfDay truncates t to midnight in its own location. All period
// arithmetic in the ledger works on start-of-day values.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

// DaysBetween returns the calendar-day difference end - start. The dates
// are compared at UTC midnight so the count is unaffected by DST
// transitions in the inputs' zone (a local-time subtraction loses an hour
// over spring-forward and truncates a day short).
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// SettlementPeriod builds the accrual period from a borrow's anchor date
// up to the as-of date, inclusive of both endpoints (anchor == as-of is a
// one-day period). An anchor after the as-of date is a configuration or
// clock problem and yields ErrClockSkew.
func SettlementPeriod(anchor, asOf time.Time) (ChargePeriod, error) {
	start := StartOfDay(anchor)
	end := StartOfDay(asOf)
	if end.Before(start) {
		return ChargePeriod{}, ErrClockSkew
	}
	return ChargePeriod{
		Start: start,
		End:   end,
		Days:  DaysBetween(start, end) + 1,
	}, nil
}

// SettlementInterest computes simple daily interest for a settlement
// charge: the daily rate is the annual rate percent divided by the number
// of days in the period-start month, applied per day of the period.
//
// This divisor is deliberate and must not be "fixed" to 365: it is the
// documented approximation the ledger has always used, and it is NOT the
// same convention as EstimateInterest.
func SettlementInterest(principal, ratePercent float64, period ChargePeriod) float64 {
	dailyRate := decimal.NewFromFloat(ratePercent).
		Div(decimal.NewFromInt(int64(DaysInMonth(period.Start))))
	interest := decimal.NewFromFloat(principal).
		Mul(dailyRate).
		Mul(decimal.NewFromInt(int64(period.Days))).
		Div(hundred)
	return interest.Round(2).InexactFloat64()
}

// EstimateInterest computes forward interest between two explicit dates
// with a flat 365-day year: amount * rate * days / (100 * 365). The day
// count here is the exclusive difference, unlike the settlement period.
//
// Estimation and settlement intentionally disagree; keep them separate.
func EstimateInterest(amount, ratePercent float64, start, end time.Time) (Estimate, error) {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if e.Before(s) {
		return Estimate{}, ErrInvalidPeriod
	}
	days := DaysBetween(s, e)
	interest := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(ratePercent)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(hundred.Mul(daysInYear))
	return Estimate{
		Interest:  interest.Round(2).InexactFloat64(),
		Days:      days,
		StartDate: s,
		EndDate:   e,
	}, nil
}

// RemainingAfter recomputes a borrow's outstanding principal from the
// full repayment total rather than decrementing, so duplicate or
// concurrent writes cannot drift the balance. Floored at zero.
func RemainingAfter(originalAmount, totalRepaid float64) float64 {
	remaining := decimal.NewFromFloat(originalAmount).
		Sub(decimal.NewFromFloat(totalRepaid))
	if remaining.IsNegative() {
		return 0
	}
	return remaining.Round(2).InexactFloat64()
}
