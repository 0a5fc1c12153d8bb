package repositories

import (
	"context"
	"time"

	"borrowdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pendingChargeRepository implements PendingChargeRepository interface
type pendingChargeRepository struct {
	db *gorm.DB
}

// NewPendingChargeRepository creates a new pending charge repository
func NewPendingChargeRepository(db *gorm.DB) PendingChargeRepository {
	return &pendingChargeRepository{db: db}
}

// Upsert inserts the borrow's pending charge or overwrites the existing
// one, keyed on the unique borrow_id index. Recomputing before settlement
// therefore just replaces the slot.
func (r *pendingChargeRepository) Upsert(ctx context.Context, charge *models.PendingCharge) error {
	return dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "borrow_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "currency_id", "principal", "rate", "interest",
				"start_date", "end_date", "days", "paid", "updated_at",
			}),
		}).
		Create(charge).Error
}

// GetByID gets a pending charge by ID
func (r *pendingChargeRepository) GetByID(ctx context.Context, id uint) (*models.PendingCharge, error) {
	var charge models.PendingCharge
	err := dbFrom(ctx, r.db).First(&charge, id).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// GetByBorrowID gets the borrow's pending charge, if any
func (r *pendingChargeRepository) GetByBorrowID(ctx context.Context, borrowID uint) (*models.PendingCharge, error) {
	var charge models.PendingCharge
	err := dbFrom(ctx, r.db).Where("borrow_id = ?", borrowID).First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// Update updates a pending charge
func (r *pendingChargeRepository) Update(ctx context.Context, charge *models.PendingCharge) error {
	return dbFrom(ctx, r.db).Save(charge).Error
}

// Delete deletes a pending charge (hard delete — settlement resets the cycle)
func (r *pendingChargeRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Delete(&models.PendingCharge{}, id).Error
}

// List lists all pending charges with their borrows
func (r *pendingChargeRepository) List(ctx context.Context) ([]*models.PendingCharge, error) {
	var charges []*models.PendingCharge
	err := dbFrom(ctx, r.db).
		Preload("Borrow").
		Preload("Borrow.User").
		Preload("Borrow.Currency").
		Order("end_date ASC").
		Find(&charges).Error
	return charges, err
}

// interestEntryRepository implements InterestEntryRepository interface
type interestEntryRepository struct {
	db *gorm.DB
}

// NewInterestEntryRepository creates a new interest entry repository
func NewInterestEntryRepository(db *gorm.DB) InterestEntryRepository {
	return &interestEntryRepository{db: db}
}

// Create creates a new interest history entry
func (r *interestEntryRepository) Create(ctx context.Context, entry *models.InterestEntry) error {
	return dbFrom(ctx, r.db).Create(entry).Error
}

// ListByBorrow lists settled interest entries of a borrow
func (r *interestEntryRepository) ListByBorrow(ctx context.Context, borrowID uint) ([]*models.InterestEntry, error) {
	var entries []*models.InterestEntry
	err := dbFrom(ctx, r.db).
		Where("borrow_id = ?", borrowID).
		Order("end_date DESC").
		Find(&entries).Error
	return entries, err
}

// LatestEndDate returns the most recent settled period end for a borrow,
// or nil when no interest has ever been settled.
func (r *interestEntryRepository) LatestEndDate(ctx context.Context, borrowID uint) (*time.Time, error) {
	var entry models.InterestEntry
	err := dbFrom(ctx, r.db).
		Where("borrow_id = ?", borrowID).
		Order("end_date DESC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry.EndDate, nil
}

// SumByBorrow sums settled interest of a borrow
func (r *interestEntryRepository) SumByBorrow(ctx context.Context, borrowID uint) (float64, error) {
	var total float64
	err := dbFrom(ctx, r.db).
		Model(&models.InterestEntry{}).
		Where("borrow_id = ?", borrowID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
