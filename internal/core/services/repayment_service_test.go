package services

import (
	"context"
	"testing"
	"time"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settleInterestThrough runs a compute+settle cycle so the borrow's
// interest is paid up through the fixture's current day.
func settleInterestThrough(t *testing.T, f *ledgerFixture, borrowID uint) {
	t.Helper()
	svc := f.interestService()
	charge, err := svc.ComputeCharge(context.Background(), borrowID)
	require.NoError(t, err)
	_, err = svc.SettleCharge(context.Background(), charge.ID)
	require.NoError(t, err)
}

func TestApplyRepayment(t *testing.T) {
	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		svc := f.repaymentService()

		_, err := svc.Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = svc.Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: -50})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("unknown borrow", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: 99, Amount: 100})
		assert.ErrorIs(t, err, domain.ErrBorrowNotFound)
	})

	t.Run("blocked by an unsettled pending charge", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))

		_, err := f.interestService().ComputeCharge(context.Background(), borrow.ID)
		require.NoError(t, err)

		_, err = f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 100})
		assert.ErrorIs(t, err, domain.ErrOutstandingInterest)

		repayments, _ := f.repaymentRepo.ListByBorrow(context.Background(), borrow.ID)
		assert.Empty(t, repayments)
	})

	t.Run("blocked when no interest has ever been settled", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))

		_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 100})
		assert.ErrorIs(t, err, domain.ErrOutstandingInterest)
	})

	t.Run("blocked when settled interest does not reach today", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		settleInterestThrough(t, f, borrow.ID)

		// Days pass without a new settlement
		f.clock.now = day(2024, time.March, 15)

		_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 100})
		assert.ErrorIs(t, err, domain.ErrOutstandingInterest)
	})

	t.Run("applies when interest is settled through today", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		settleInterestThrough(t, f, borrow.ID)

		repayment, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 300})
		require.NoError(t, err)

		assert.NotEmpty(t, repayment.Reference)
		assert.Equal(t, 300.0, repayment.Amount)
		assert.Equal(t, day(2024, time.March, 11), repayment.PayDate)

		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, 700.0, updated.RemainingAmount)
		assert.Equal(t, domain.BorrowStatusOpen, updated.Status)
	})

	t.Run("balance is recomputed from the repayment total", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		settleInterestThrough(t, f, borrow.ID)
		svc := f.repaymentService()

		_, err := svc.Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 250})
		require.NoError(t, err)
		_, err = svc.Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 250})
		require.NoError(t, err)

		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, updated.RemainingAmount)

		total, err := f.repaymentRepo.SumByBorrow(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, total)
	})

	t.Run("overpayment floors at zero and marks the borrow paid", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		settleInterestThrough(t, f, borrow.ID)

		_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 1200})
		require.NoError(t, err)

		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, updated.RemainingAmount)
		assert.Equal(t, domain.BorrowStatusPaid, updated.Status)
	})

	t.Run("exact payoff marks the borrow paid", func(t *testing.T) {
		f := newLedgerFixture(day(2024, time.March, 11))
		borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
		settleInterestThrough(t, f, borrow.ID)

		_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 1000})
		require.NoError(t, err)

		updated, err := f.borrowRepo.GetByID(context.Background(), borrow.ID)
		require.NoError(t, err)
		assert.True(t, updated.IsPaid())
	})
}

func TestListByBorrow(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))
	settleInterestThrough(t, f, borrow.ID)
	svc := f.repaymentService()

	_, err := svc.Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 100})
	require.NoError(t, err)

	repayments, err := svc.ListByBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)
	require.Len(t, repayments, 1)
	assert.Equal(t, 100.0, repayments[0].Amount)

	_, err = svc.ListByBorrow(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrBorrowNotFound)
}

// Settlement on a partially repaid borrow keeps a consistent chain of
// history rows.
func TestInterestAndRepaymentCycle(t *testing.T) {
	f := newLedgerFixture(day(2024, time.March, 11))
	borrow := f.addBorrow(1000, 12, day(2024, time.March, 1))

	settleInterestThrough(t, f, borrow.ID)
	_, err := f.repaymentService().Apply(context.Background(), &ApplyRepaymentInput{BorrowID: borrow.ID, Amount: 400})
	require.NoError(t, err)

	// Next cycle accrues on the reduced balance
	f.clock.now = day(2024, time.March, 21)
	charge, err := f.interestService().ComputeCharge(context.Background(), borrow.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, charge.Principal)
	assert.Equal(t, day(2024, time.March, 12), charge.StartDate)

	_, err = f.interestService().SettleCharge(context.Background(), charge.ID)
	require.NoError(t, err)

	entries, err := f.entryRepo.ListByBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var repayment *models.Repayment
	repayments, err := f.repaymentRepo.ListByBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)
	require.Len(t, repayments, 1)
	repayment = repayments[0]
	assert.Equal(t, 400.0, repayment.Amount)
}
