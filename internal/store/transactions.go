package store

import (
	"context"

	"gorm.io/gorm"

	"casino-engine-backend/internal/models"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append writes one immutable ledger entry. Entries are never updated or
// deleted; corrections are new entries.
func (r *TransactionRepository) Append(tx *gorm.DB, txn *models.Transaction) error {
	return tx.Create(txn).Error
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// ListByUserForReplay returns every entry in creation order, for the
// ledger replay audit.
func (r *TransactionRepository) ListByUserForReplay(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Find(&txns).Error
	return txns, err
}
