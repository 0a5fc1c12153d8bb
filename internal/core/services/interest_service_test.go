package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"borrowdesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeCharge(t *testing.T) {
	t.Run("creates pending charge from anchor through today", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))

		charge, err := f.interestService().ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		// 1000 * (12/31) * 11 / 100
		assert.Equal(t, 42.58, charge.Interest)
		assert.Equal(t, 11, charge.Days)
		assert.Equal(t, day(2024, time.March, 1), charge.StartDate)
		assert.Equal(t, day(2024, time.March, 11), charge.EndDate)
		assert.Equal(t, 1000.0, charge.Principal)
		assert.False(t, charge.Paid)
	})

	t.Run("accrues on remaining balance, not original amount", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		borrow.RemainingAmount = 500
		require.NoError(t, f.borrowRepo.Update(context.Background(), borrow))

		charge, err := f.interestService().ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, charge.Principal)
		// 500 * (12/31) * 11 / 100 = 21.29
		assert.Equal(t, 21.29, charge.Interest)
	})

	t.Run("recomputation overwrites the single slot", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.interestService()

		first, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		f.clock.now = day(2024, time.March, 20)
		second, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		// The returned row must carry the persisted slot's id even on the
		// overwrite path, where the database reports no insert id.
		assert.NotZero(t, second.ID)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 20, second.Days)

		charges, err := f.chargeRepo.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, charges, 1)
	})

	t.Run("anchor in the future is a clock skew error", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 10))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 15))

		_, err := f.interestService().ComputeCharge(context.Background(), borrow.ID)
		assert.ErrorIs(t, err, domain.ErrClockSkew)

		charges, _ := f.chargeRepo.List(context.Background())
		assert.Empty(t, charges)
	})

	t.Run("unknown borrow", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 10))
		_, err := f.interestService().ComputeCharge(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrBorrowNotFound)
	})
}

func TestComputeAllCharges(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	f.addBorrow(1000, 12, day(2024, time.March, 1))
	f.addBorrow(2000, 10, day(2024, time.March, 5))

	paid := f.addBorrow(500, 8, day(2024, time.March, 1))
	paid.Status = domain.BorrowStatusPaid
	require.NoError(t, f.borrowRepo.Update(context.Background(), paid))

	computed, errs := f.interestService().ComputeAllCharges(context.Background())
	assert.Empty(t, errs)
	assert.Equal(t, 2, computed)

	charges, err := f.chargeRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, charges, 2)
}

func TestSettleCharge(t *testing.T) {
	t.Run("records history, advances anchor, clears slot", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.interestService()

		charge, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		entry, err := svc.SettleCharge(context.Background(), charge.ID)
		require.NoError(t, err)

		assert.Equal(t, 42.58, entry.Amount)
		assert.Equal(t, day(2024, time.March, 1), entry.StartDate)
		assert.Equal(t, day(2024, time.March, 11), entry.EndDate)
		assert.Equal(t, day(2024, time.March, 11), entry.PaidDate)

		// Anchor moves to the day after the settled period
		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.March, 12), updated.InterestDate)

		// Pending slot is free again
		_, err = f.chargeRepo.GetByBorrowID(context.Background(), borrow.ID)
		assert.Error(t, err)
	})

	t.Run("consecutive settlements leave no gap", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.interestService()

		charge, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)
		_, err = svc.SettleCharge(context.Background(), charge.ID)
		require.NoError(t, err)

		f.clock.now = day(2024, time.March, 20)
		next, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		// New period starts exactly where the settled one ended plus a day
		assert.Equal(t, day(2024, time.March, 12), next.StartDate)
		assert.Equal(t, day(2024, time.March, 20), next.EndDate)
		assert.Equal(t, 9, next.Days)
	})

	t.Run("settles the slot as recomputed while waiting for the lock", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.interestService()

		charge, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		// A concurrent recompute replaces the slot between our read of
		// the charge and the borrow lock.
		f.borrowRepo.onLock = func() {
			f.borrowRepo.onLock = nil
			fresh, err := f.chargeRepo.GetByBorrowID(context.Background(), borrow.ID)
			require.NoError(t, err)
			fresh.EndDate = day(2024, time.March, 20)
			fresh.Days = 20
			fresh.Interest = 77.42
			require.NoError(t, f.chargeRepo.Update(context.Background(), fresh))
		}

		entry, err := svc.SettleCharge(context.Background(), charge.ID)
		require.NoError(t, err)

		// The fresher period is what gets settled, not the stale read
		assert.Equal(t, 77.42, entry.Amount)
		assert.Equal(t, day(2024, time.March, 20), entry.EndDate)

		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.March, 21), updated.InterestDate)
	})

	t.Run("unknown charge", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		_, err := f.interestService().SettleCharge(context.Background(), 42)
		assert.ErrorIs(t, err, domain.ErrChargeNotFound)
	})

	t.Run("rolls everything back when a write fails", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.interestService()

		charge, err := svc.ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		f.entryRepo.failCreate = errors.New("disk full")
		_, err = svc.SettleCharge(context.Background(), charge.ID)
		require.Error(t, err)

		// Charge still pending and unpaid, anchor untouched, no history row
		kept, err := f.chargeRepo.GetByBorrowID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.False(t, kept.Paid)

		unchanged, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.March, 1), unchanged.InterestDate)

		entries, err := f.entryRepo.ListByBorrow(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestEstimate(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	svc := f.interestService()

	t.Run("flat 365 estimate", func(t *testing.T) {
		estimate, err := svc.Estimate(context.Background(), 1000, 12, "2024-03-01", "2024-03-26")
		require.NoError(t, err)
		assert.Equal(t, 8.22, estimate.Interest)
		assert.Equal(t, 25, estimate.Days)
	})

	t.Run("rejects non-positive amount or rate", func(t *testing.T) {
		_, err := svc.Estimate(context.Background(), 0, 12, "2024-03-01", "2024-03-26")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = svc.Estimate(context.Background(), 1000, -1, "2024-03-01", "2024-03-26")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, err := svc.Estimate(context.Background(), 1000, 12, "01-03-2024", "2024-03-26")
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})
}

func TestEstimateForBorrow(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
	svc := f.interestService()

	t.Run("uses the borrow's amount and rate", func(t *testing.T) {
		estimate, err := svc.EstimateForBorrow(context.Background(), borrow.ID, "2024-03-01", "2024-03-26")
		require.NoError(t, err)
		// 1000 * 12 * 25 / (100 * 365) = 8.22
		assert.Equal(t, 8.22, estimate.Interest)
		assert.Equal(t, 25, estimate.Days)
	})

	t.Run("unknown borrow", func(t *testing.T) {
		_, err := svc.EstimateForBorrow(context.Background(), 99, "2024-03-01", "2024-03-26")
		assert.ErrorIs(t, err, domain.ErrBorrowNotFound)
	})
}

func TestHistory(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
	svc := f.interestService()

	charge, err := svc.ComputeCharge(context.Background(), borrow.ID)
	require.NoError(t, err)
	first, err := svc.SettleCharge(context.Background(), charge.ID)
	require.NoError(t, err)

	f.clock.now = day(2024, time.March, 20)
	charge, err = svc.ComputeCharge(context.Background(), borrow.ID)
	require.NoError(t, err)
	second, err := svc.SettleCharge(context.Background(), charge.ID)
	require.NoError(t, err)

	entries, total, err := svc.History(context.Background(), borrow.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.Amount+second.Amount, total)

	_, _, err = svc.History(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrBorrowNotFound)
}
