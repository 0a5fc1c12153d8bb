package repositories

import (
	"context"
	"errors"

	"borrowdesk/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type txKey struct{}

// gormTxManager implements TxManager on a *gorm.DB
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// WithinTransaction runs fn inside a transaction; the tx handle is placed
// in the context so repositories created from the same *gorm.DB join it.
// Lock wait timeouts and deadlocks surface as ErrConcurrencyConflict.
func (m *gormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if isLockConflict(err) {
		return domain.ErrConcurrencyConflict
	}
	return err
}

// dbFrom returns the transactional handle carried in ctx, or falls back
// to the repository's own connection.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

// MySQL error numbers: 1205 lock wait timeout, 1213 deadlock victim.
func isLockConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1205 || mysqlErr.Number == 1213
	}
	return false
}
