package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-engine-backend/internal/models"
)

type BetRepository struct {
	db *gorm.DB
}

func NewBetRepository(db *gorm.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) Create(tx *gorm.DB, bet *models.Bet) error {
	return tx.Create(bet).Error
}

func (r *BetRepository) Save(tx *gorm.DB, bet *models.Bet) error {
	return tx.Save(bet).Error
}

func (r *BetRepository) GetByID(ctx context.Context, id string) (*models.Bet, error) {
	var bet models.Bet
	if err := r.db.WithContext(ctx).First(&bet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

// GetForUpdate locks the bet row for a round transition. The owning user
// row is locked as well by the caller; both locks are taken in the same
// order everywhere (user first) to keep the lock graph acyclic.
func (r *BetRepository) GetForUpdate(tx *gorm.DB, id string) (*models.Bet, error) {
	var bet models.Bet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *BetRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&bets).Error
	return bets, err
}

func (r *BetRepository) ListActiveByUser(ctx context.Context, userID int64) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active", userID).
		Order("created_at DESC").
		Find(&bets).Error
	return bets, err
}

// CountByDraw reports bets already placed under a (server seed, client
// seed) pair. A client seed change restarts the nonce, so returning to a
// pair with history would replay consumed draw tuples.
func (r *BetRepository) CountByDraw(tx *gorm.DB, userID int64, serverSeedHash, clientSeed string) (int64, error) {
	var count int64
	err := tx.Model(&models.Bet{}).
		Where("user_id = ? AND server_seed_hash = ? AND client_seed = ?", userID, serverSeedHash, clientSeed).
		Count(&count).Error
	return count, err
}

// CountActive reports open rounds inside a transaction; seed rotation is
// refused while any exist.
func (r *BetRepository) CountActive(tx *gorm.DB, userID int64) (int64, error) {
	var count int64
	err := tx.Model(&models.Bet{}).
		Where("user_id = ? AND active", userID).
		Count(&count).Error
	return count, err
}
