package services

import (
	"context"
	"errors"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/core/domain"

	"gorm.io/gorm"
)

// BorrowService handles borrow record business logic
type BorrowService struct {
	borrowRepo   repositories.BorrowRepository
	userRepo     repositories.UserRepository
	currencyRepo repositories.CurrencyRepository
}

// NewBorrowService creates a new borrow service
func NewBorrowService(
	borrowRepo repositories.BorrowRepository,
	userRepo repositories.UserRepository,
	currencyRepo repositories.CurrencyRepository,
) *BorrowService {
	return &BorrowService{
		borrowRepo:   borrowRepo,
		userRepo:     userRepo,
		currencyRepo: currencyRepo,
	}
}

// RegisterBorrowInput represents register borrow input
type RegisterBorrowInput struct {
	UserID       uint    `json:"user_id" validate:"required"`
	CurrencyID   uint    `json:"currency_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Rate         float64 `json:"rate" validate:"required,gt=0"`
	BorrowedDate string  `json:"borrowed_date" validate:"required"`
	InterestDate string  `json:"interest_date,omitempty"`
}

// Register creates a new borrow record. The outstanding balance starts at
// the full amount and the accrual anchor defaults to the borrowed date, so
// interest accrues from day one unless an explicit anchor is given.
func (s *BorrowService) Register(ctx context.Context, input *RegisterBorrowInput) (*models.Borrow, error) {
	if input.Amount <= 0 || input.Rate <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil || user == nil {
		return nil, domain.ErrNotFound
	}

	currency, err := s.currencyRepo.GetByID(ctx, input.CurrencyID)
	if err != nil {
		return nil, domain.ErrCurrencyNotFound
	}

	borrowedDate, err := parseDate(input.BorrowedDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	interestDate := borrowedDate
	if input.InterestDate != "" {
		interestDate, err = parseDate(input.InterestDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	borrow := &models.Borrow{
		UserID:          user.ID,
		CurrencyID:      currency.ID,
		Amount:          input.Amount,
		RemainingAmount: input.Amount,
		Rate:            input.Rate,
		BorrowedDate:    borrowedDate,
		InterestDate:    interestDate,
		Status:          domain.BorrowStatusOpen,
	}

	if err := s.borrowRepo.Create(ctx, borrow); err != nil {
		return nil, err
	}

	return s.borrowRepo.GetByID(ctx, borrow.ID)
}

// GetByID gets a borrow by ID
func (s *BorrowService) GetByID(ctx context.Context, id uint) (*models.Borrow, error) {
	borrow, err := s.borrowRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBorrowNotFound
		}
		return nil, err
	}
	return borrow, nil
}

// List lists borrows with pagination
func (s *BorrowService) List(ctx context.Context, offset, limit int) ([]*models.Borrow, int64, error) {
	return s.borrowRepo.List(ctx, offset, limit)
}

// ListByUser lists the borrows of a user
func (s *BorrowService) ListByUser(ctx context.Context, userID uint) ([]*models.Borrow, error) {
	return s.borrowRepo.ListByUser(ctx, userID)
}

// ListRepayable lists open borrows, optionally filtered by user
func (s *BorrowService) ListRepayable(ctx context.Context, userID *uint) ([]*models.Borrow, error) {
	return s.borrowRepo.ListRepayable(ctx, userID)
}

// UpdateBorrowInput represents update borrow input
type UpdateBorrowInput struct {
	Rate         *float64 `json:"rate,omitempty"`
	InterestDate *string  `json:"interest_date,omitempty"`
}

// Update adjusts a borrow's rate or accrual anchor. Amounts are never
// edited here; the balance only moves through repayments.
func (s *BorrowService) Update(ctx context.Context, id uint, input *UpdateBorrowInput) (*models.Borrow, error) {
	borrow, err := s.borrowRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBorrowNotFound
		}
		return nil, err
	}

	if input.Rate != nil {
		if *input.Rate <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		borrow.Rate = *input.Rate
	}

	if input.InterestDate != nil {
		interestDate, err := parseDate(*input.InterestDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		borrow.InterestDate = interestDate
	}

	if err := s.borrowRepo.Update(ctx, borrow); err != nil {
		return nil, err
	}

	return s.borrowRepo.GetByID(ctx, borrow.ID)
}

// Delete soft-deletes a borrow
func (s *BorrowService) Delete(ctx context.Context, id uint) error {
	if _, err := s.borrowRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBorrowNotFound
		}
		return err
	}
	return s.borrowRepo.Delete(ctx, id)
}
