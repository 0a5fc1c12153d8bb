package services

import (
	"context"
	"errors"
	"time"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/core/domain"
	"borrowdesk/internal/pkg/clock"
	"borrowdesk/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepaymentService handles principal repayments
type RepaymentService struct {
	txManager     repositories.TxManager
	borrowRepo    repositories.BorrowRepository
	chargeRepo    repositories.PendingChargeRepository
	entryRepo     repositories.InterestEntryRepository
	repaymentRepo repositories.RepaymentRepository
	clock         clock.Clock
}

// NewRepaymentService creates a new repayment service
func NewRepaymentService(
	txManager repositories.TxManager,
	borrowRepo repositories.BorrowRepository,
	chargeRepo repositories.PendingChargeRepository,
	entryRepo repositories.InterestEntryRepository,
	repaymentRepo repositories.RepaymentRepository,
	clk clock.Clock,
) *RepaymentService {
	return &RepaymentService{
		txManager:     txManager,
		borrowRepo:    borrowRepo,
		chargeRepo:    chargeRepo,
		entryRepo:     entryRepo,
		repaymentRepo: repaymentRepo,
		clock:         clk,
	}
}

// ApplyRepaymentInput represents apply repayment input
type ApplyRepaymentInput struct {
	BorrowID uint    `json:"borrow_id" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

// Apply records a principal repayment against a borrow. Principal may only
// shrink while interest is fully settled: an unsettled pending charge, or
// settled interest that does not reach today, refuses the repayment with
// ErrOutstandingInterest. The new balance is recomputed from the full
// repayment total, and the borrow flips to Paid exactly when it hits zero.
func (s *RepaymentService) Apply(ctx context.Context, input *ApplyRepaymentInput) (*models.Repayment, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var repayment *models.Repayment

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		borrow, err := s.borrowRepo.GetByIDForUpdate(ctx, input.BorrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBorrowNotFound
			}
			return err
		}

		if err := s.checkInterestSettled(ctx, borrow.ID); err != nil {
			return err
		}

		now := s.clock.Now()
		repayment = &models.Repayment{
			Reference:  uuid.New().String(),
			BorrowID:   borrow.ID,
			UserID:     borrow.UserID,
			CurrencyID: borrow.CurrencyID,
			Amount:     input.Amount,
			PayDate:    now,
		}
		if err := s.repaymentRepo.Create(ctx, repayment); err != nil {
			return err
		}

		totalRepaid, err := s.repaymentRepo.SumByBorrow(ctx, borrow.ID)
		if err != nil {
			return err
		}

		borrow.RemainingAmount = domain.RemainingAfter(borrow.Amount, totalRepaid)
		if borrow.RemainingAmount == 0 {
			borrow.Status = domain.BorrowStatusPaid
		}

		return s.borrowRepo.Update(ctx, borrow)
	})
	if err != nil {
		if errors.Is(err, domain.ErrOutstandingInterest) {
			metrics.RepaymentsRejected.Inc()
		}
		return nil, err
	}

	metrics.RepaymentsApplied.Inc()
	return repayment, nil
}

// checkInterestSettled enforces the repayment gate: no unsettled pending
// charge, and the latest settled period must cover today.
func (s *RepaymentService) checkInterestSettled(ctx context.Context, borrowID uint) error {
	charge, err := s.chargeRepo.GetByBorrowID(ctx, borrowID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if charge != nil && !charge.Paid {
		return domain.ErrOutstandingInterest
	}

	latestEnd, err := s.entryRepo.LatestEndDate(ctx, borrowID)
	if err != nil {
		return err
	}
	if latestEnd == nil {
		return domain.ErrOutstandingInterest
	}

	today := domain.StartOfDay(s.clock.Now())
	if domain.StartOfDay(*latestEnd).Before(today) {
		return domain.ErrOutstandingInterest
	}

	return nil
}

// ListByBorrow lists the repayments of a borrow, newest first
func (s *RepaymentService) ListByBorrow(ctx context.Context, borrowID uint) ([]*models.Repayment, error) {
	if _, err := s.borrowRepo.GetByID(ctx, borrowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBorrowNotFound
		}
		return nil, err
	}
	return s.repaymentRepo.ListByBorrow(ctx, borrowID)
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
