package repositories

import (
	"context"

	"borrowdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// currencyRepository implements CurrencyRepository interface
type currencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) CurrencyRepository {
	return &currencyRepository{db: db}
}

// Create creates a new currency
func (r *currencyRepository) Create(ctx context.Context, currency *models.Currency) error {
	return dbFrom(ctx, r.db).Create(currency).Error
}

// GetByID gets a currency by ID
func (r *currencyRepository) GetByID(ctx context.Context, id uint) (*models.Currency, error) {
	var currency models.Currency
	err := dbFrom(ctx, r.db).First(&currency, id).Error
	if err != nil {
		return nil, err
	}
	return &currency, nil
}

// GetByCode gets a currency by its code
func (r *currencyRepository) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	err := dbFrom(ctx, r.db).Where("code = ?", code).First(&currency).Error
	if err != nil {
		return nil, err
	}
	return &currency, nil
}

// Update updates a currency
func (r *currencyRepository) Update(ctx context.Context, currency *models.Currency) error {
	return dbFrom(ctx, r.db).Save(currency).Error
}

// Delete soft deletes a currency
func (r *currencyRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Delete(&models.Currency{}, id).Error
}

// List lists all currencies
func (r *currencyRepository) List(ctx context.Context) ([]*models.Currency, error) {
	var currencies []*models.Currency
	err := dbFrom(ctx, r.db).Order("code ASC").Find(&currencies).Error
	return currencies, err
}
