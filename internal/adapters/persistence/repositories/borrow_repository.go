package repositories

import (
	"context"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// borrowRepository implements BorrowRepository interface
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository creates a new borrow repository
func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

// Create creates a new borrow
func (r *borrowRepository) Create(ctx context.Context, borrow *models.Borrow) error {
	return dbFrom(ctx, r.db).Create(borrow).Error
}

// GetByID gets a borrow by ID with relations
func (r *borrowRepository) GetByID(ctx context.Context, id uint) (*models.Borrow, error) {
	var borrow models.Borrow
	err := dbFrom(ctx, r.db).
		Preload("User").
		Preload("Currency").
		Preload("PendingCharge").
		First(&borrow, id).Error
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// GetByIDForUpdate gets a borrow by ID holding its row lock (FOR UPDATE).
// Must be called inside a transaction; the lock serializes charge
// computation, settlement and repayment on the same borrow.
func (r *borrowRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Borrow, error) {
	var borrow models.Borrow
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&borrow, id).Error
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// Update updates a borrow
func (r *borrowRepository) Update(ctx context.Context, borrow *models.Borrow) error {
	return dbFrom(ctx, r.db).Save(borrow).Error
}

// Delete soft deletes a borrow
func (r *borrowRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Delete(&models.Borrow{}, id).Error
}

// List lists all borrows with pagination
func (r *borrowRepository) List(ctx context.Context, offset, limit int) ([]*models.Borrow, int64, error) {
	var borrows []*models.Borrow
	var total int64

	if err := dbFrom(ctx, r.db).Model(&models.Borrow{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := dbFrom(ctx, r.db).
		Preload("User").
		Preload("Currency").
		Preload("PendingCharge").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&borrows).Error

	return borrows, total, err
}

// ListByUser lists borrows of one user
func (r *borrowRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Borrow, error) {
	var borrows []*models.Borrow
	err := dbFrom(ctx, r.db).
		Preload("Currency").
		Preload("PendingCharge").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&borrows).Error
	return borrows, err
}

// ListRepayable lists borrows that can still accept repayments, i.e.
// everything not yet fully paid, optionally filtered by user. Paid is
// terminal for repayments, enforced here by exclusion.
func (r *borrowRepository) ListRepayable(ctx context.Context, userID *uint) ([]*models.Borrow, error) {
	query := dbFrom(ctx, r.db).
		Preload("User").
		Preload("Currency").
		Where("status <> ?", domain.BorrowStatusPaid)

	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var borrows []*models.Borrow
	err := query.Order("created_at DESC").Find(&borrows).Error
	return borrows, err
}
