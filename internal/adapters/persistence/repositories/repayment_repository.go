package repositories

import (
	"context"

	"borrowdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// repaymentRepository implements RepaymentRepository interface
type repaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates a new repayment repository
func NewRepaymentRepository(db *gorm.DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

// Create creates a new repayment
func (r *repaymentRepository) Create(ctx context.Context, repayment *models.Repayment) error {
	return dbFrom(ctx, r.db).Create(repayment).Error
}

// ListByBorrow lists repayments of a borrow
func (r *repaymentRepository) ListByBorrow(ctx context.Context, borrowID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := dbFrom(ctx, r.db).
		Preload("Currency").
		Where("borrow_id = ?", borrowID).
		Order("pay_date DESC").
		Find(&repayments).Error
	return repayments, err
}

// SumByBorrow sums all repayments of a borrow. The remaining balance is
// always recomputed from this total, never decremented in place.
func (r *repaymentRepository) SumByBorrow(ctx context.Context, borrowID uint) (float64, error) {
	var total float64
	err := dbFrom(ctx, r.db).
		Model(&models.Repayment{}).
		Where("borrow_id = ?", borrowID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
