package services

import (
	"context"
	"errors"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/core/domain"
	"borrowdesk/internal/pkg/clock"
	"borrowdesk/internal/pkg/metrics"

	"gorm.io/gorm"
)

// InterestService handles interest accrual and settlement
type InterestService struct {
	txManager  repositories.TxManager
	borrowRepo repositories.BorrowRepository
	chargeRepo repositories.PendingChargeRepository
	entryRepo  repositories.InterestEntryRepository
	clock      clock.Clock
}

// NewInterestService creates a new interest service
func NewInterestService(
	txManager repositories.TxManager,
	borrowRepo repositories.BorrowRepository,
	chargeRepo repositories.PendingChargeRepository,
	entryRepo repositories.InterestEntryRepository,
	clk clock.Clock,
) *InterestService {
	return &InterestService{
		txManager:  txManager,
		borrowRepo: borrowRepo,
		chargeRepo: chargeRepo,
		entryRepo:  entryRepo,
		clock:      clk,
	}
}

// ComputeCharge computes (or recomputes) the pending interest charge of a
// borrow for the period from its accrual anchor through today, inclusive.
// Each borrow keeps at most one pending charge; recomputation overwrites
// the existing row, so calling this daily is safe and idempotent per day.
func (s *InterestService) ComputeCharge(ctx context.Context, borrowID uint) (*models.PendingCharge, error) {
	var charge *models.PendingCharge

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		borrow, err := s.borrowRepo.GetByIDForUpdate(ctx, borrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowNotFound
			}
			return err
		}

		if borrow.IsPaid() {
			return domain.ErrBorrowNotFound
		}

		period, err := domain.SettlementPeriod(borrow.InterestDate, s.clock.Now())
		if err != nil {
			return err
		}

		interest := domain.SettlementInterest(borrow.RemainingAmount, borrow.Rate, period)

		charge = &models.PendingCharge{
			BorrowID:   borrow.ID,
			UserID:     borrow.UserID,
			CurrencyID: borrow.CurrencyID,
			Principal:  borrow.RemainingAmount,
			Rate:       borrow.Rate,
			Interest:   interest,
			StartDate:  period.Start,
			EndDate:    period.End,
			Days:       period.Days,
			Paid:       false,
		}

		if err := s.chargeRepo.Upsert(ctx, charge); err != nil {
			return err
		}

		// MySQL's upsert does not report the surviving row's id on the
		// update path, so read the slot back to return the real row.
		charge, err = s.chargeRepo.GetByBorrowID(ctx, borrow.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ChargesComputed.Inc()
	return charge, nil
}

// ComputeAllCharges recomputes pending charges for every open borrow. Used
// by the daily cron job; individual failures are collected so one bad
// borrow does not stall the rest.
func (s *InterestService) ComputeAllCharges(ctx context.Context) (int, []error) {
	borrows, err := s.borrowRepo.ListRepayable(ctx, nil)
	if err != nil {
		return 0, []error{err}
	}

	var errs []error
	computed := 0
	for _, borrow := range borrows {
		if _, err := s.ComputeCharge(ctx, borrow.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		computed++
	}
	return computed, errs
}

// Estimate computes forward interest between two dates without touching
// any borrow. Uses the flat 365-day convention, which differs from the
// settlement calculation on purpose.
func (s *InterestService) Estimate(ctx context.Context, amount, rate float64, start, end string) (*domain.Estimate, error) {
	if amount <= 0 || rate <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	startDate, err := parseDate(start)
	if err != nil {
		return nil, domain.ErrInvalidPeriod
	}
	endDate, err := parseDate(end)
	if err != nil {
		return nil, domain.ErrInvalidPeriod
	}

	estimate, err := domain.EstimateInterest(amount, rate, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// EstimateForBorrow estimates forward interest for a borrow between two
// dates, taking the amount and rate from the borrow itself.
func (s *InterestService) EstimateForBorrow(ctx context.Context, borrowID uint, start, end string) (*domain.Estimate, error) {
	borrow, err := s.borrowRepo.GetByID(ctx, borrowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBorrowNotFound
		}
		return nil, err
	}
	return s.Estimate(ctx, borrow.Amount, borrow.Rate, start, end)
}

// SettleCharge marks a pending charge as paid: the charge becomes an
// immutable history entry, the borrow's accrual anchor advances to the day
// after the charged period, and the pending slot is cleared. All four
// writes happen in one transaction.
func (s *InterestService) SettleCharge(ctx context.Context, chargeID uint) (*models.InterestEntry, error) {
	var entry *models.InterestEntry

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		charge, err := s.chargeRepo.GetByID(ctx, chargeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrChargeNotFound
			}
			return err
		}

		borrow, err := s.borrowRepo.GetByIDForUpdate(ctx, charge.BorrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowNotFound
			}
			return err
		}

		// A recompute may have replaced the slot while we waited for the
		// borrow lock; settle the charge as it stands under the lock.
		charge, err = s.chargeRepo.GetByID(ctx, charge.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrChargeNotFound
			}
			return err
		}

		charge.Paid = true
		if err := s.chargeRepo.Update(ctx, charge); err != nil {
			return err
		}

		entry = &models.InterestEntry{
			BorrowID:  borrow.ID,
			UserID:    borrow.UserID,
			Amount:    charge.Interest,
			StartDate: charge.StartDate,
			EndDate:   charge.EndDate,
			PaidDate:  domain.StartOfDay(s.clock.Now()),
		}
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			return err
		}

		// Next period starts the day after the one just settled, so
		// consecutive settlements leave no gap and no double-counted day.
		borrow.InterestDate = charge.EndDate.AddDate(0, 0, 1)
		if err := s.borrowRepo.Update(ctx, borrow); err != nil {
			return err
		}

		return s.chargeRepo.Delete(ctx, charge.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.ChargesSettled.Inc()
	return entry, nil
}

// ListPendingCharges lists all computed-but-unsettled charges
func (s *InterestService) ListPendingCharges(ctx context.Context) ([]*models.PendingCharge, error) {
	return s.chargeRepo.List(ctx)
}

// GetPendingCharge returns the pending charge of a borrow, or
// ErrChargeNotFound when none has been computed.
func (s *InterestService) GetPendingCharge(ctx context.Context, borrowID uint) (*models.PendingCharge, error) {
	charge, err := s.chargeRepo.GetByBorrowID(ctx, borrowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChargeNotFound
		}
		return nil, err
	}
	return charge, nil
}

// History lists the settled interest entries of a borrow along with the
// total interest collected on it.
func (s *InterestService) History(ctx context.Context, borrowID uint) ([]*models.InterestEntry, float64, error) {
	if _, err := s.borrowRepo.GetByID(ctx, borrowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrBorrowNotFound
		}
		return nil, 0, err
	}

	entries, err := s.entryRepo.ListByBorrow(ctx, borrowID)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entryRepo.SumByBorrow(ctx, borrowID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
