package repositories

import (
	"context"
	"time"

	"borrowdesk/internal/adapters/persistence/models"
)

// TxManager runs a function inside a database transaction. The
// transactional handle travels in the context, so repository calls made
// with the derived context join the same transaction. Settlement and
// repayment both depend on this for their all-or-nothing guarantee.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// CurrencyRepository defines currency master repository interface
type CurrencyRepository interface {
	Create(ctx context.Context, currency *models.Currency) error
	GetByID(ctx context.Context, id uint) (*models.Currency, error)
	GetByCode(ctx context.Context, code string) (*models.Currency, error)
	Update(ctx context.Context, currency *models.Currency) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Currency, error)
}

// BorrowRepository defines borrow (loan record) repository interface.
// GetByIDForUpdate takes the borrow's row lock; every mutating ledger
// operation acquires it first so work on one borrow is serialized while
// different borrows proceed in parallel.
type BorrowRepository interface {
	Create(ctx context.Context, borrow *models.Borrow) error
	GetByID(ctx context.Context, id uint) (*models.Borrow, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Borrow, error)
	Update(ctx context.Context, borrow *models.Borrow) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Borrow, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Borrow, error)
	ListRepayable(ctx context.Context, userID *uint) ([]*models.Borrow, error)
}

// PendingChargeRepository defines the single-slot pending charge store.
type PendingChargeRepository interface {
	Upsert(ctx context.Context, charge *models.PendingCharge) error
	GetByID(ctx context.Context, id uint) (*models.PendingCharge, error)
	GetByBorrowID(ctx context.Context, borrowID uint) (*models.PendingCharge, error)
	Update(ctx context.Context, charge *models.PendingCharge) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.PendingCharge, error)
}

// InterestEntryRepository defines the settled-interest history store.
type InterestEntryRepository interface {
	Create(ctx context.Context, entry *models.InterestEntry) error
	ListByBorrow(ctx context.Context, borrowID uint) ([]*models.InterestEntry, error)
	LatestEndDate(ctx context.Context, borrowID uint) (*time.Time, error)
	SumByBorrow(ctx context.Context, borrowID uint) (float64, error)
}

// RepaymentRepository defines the repayment store.
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *models.Repayment) error
	ListByBorrow(ctx context.Context, borrowID uint) ([]*models.Repayment, error)
	SumByBorrow(ctx context.Context, borrowID uint) (float64, error)
}
