package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-engine-backend/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetForUpdate loads the user row under SELECT ... FOR UPDATE inside tx.
// Every mutation of a user's balances, nonce or seed goes through this
// lock, which serializes concurrent requests for the same user.
func (r *UserRepository) GetForUpdate(tx *gorm.DB, id int64) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(tx *gorm.DB, user *models.User) error {
	return tx.Save(user).Error
}
