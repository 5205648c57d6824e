package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/store"
)

// Ledger is the authoritative balance store. Balance mutations and their
// transaction-log entries always commit in one database transaction under
// the user's row lock: a balance change without its entry (or the
// reverse) cannot be observed.
type Ledger struct {
	db    *gorm.DB
	users *store.UserRepository
	txns  *store.TransactionRepository
	log   *logrus.Logger
}

func NewLedger(db *gorm.DB, users *store.UserRepository, txns *store.TransactionRepository, log *logrus.Logger) *Ledger {
	return &Ledger{db: db, users: users, txns: txns, log: log}
}

// append writes one ledger entry and applies its effect to the user's
// cached projection. The caller holds the user row lock and persists the
// user before commit.
func (l *Ledger) append(tx *gorm.DB, user *models.User, typ models.TransactionType, amount float64, betID *string, reference string) error {
	var before, after float64

	if typ.AffectsLocked() {
		before = user.LockedBalance
		after = models.RoundAmount(before + amount)
		user.LockedBalance = after
	} else {
		before = user.AvailableBalance
		after = models.RoundAmount(before + amount)
		user.AvailableBalance = after
	}

	if after < 0 {
		// Insufficiency is checked before entries are written; reaching a
		// negative balance here is a bug, not a user error.
		return fmt.Errorf("%w: %s entry drives user %d balance to %.2f", ErrIntegrity, typ, user.ID, after)
	}

	user.TxSeq++

	return l.txns.Append(tx, &models.Transaction{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Seq:           user.TxSeq,
		BetID:         betID,
		Reference:     reference,
		CreatedAt:     time.Now(),
	})
}

// DebitWager takes the stake from the available balance. For multi-step
// games the same amount moves to the locked balance in a second entry, so
// the funds are committed but not spent until the round settles.
func (l *Ledger) DebitWager(tx *gorm.DB, user *models.User, amount float64, lock bool, betID string) error {
	if user.AvailableBalance < amount {
		return fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, user.AvailableBalance, amount)
	}

	if err := l.append(tx, user, models.TransactionTypeWager, -amount, &betID, ""); err != nil {
		return err
	}
	if lock {
		if err := l.append(tx, user, models.TransactionTypeLock, amount, &betID, ""); err != nil {
			return err
		}
	}

	user.TotalWagered = models.RoundAmount(user.TotalWagered + amount)
	return nil
}

// CreditPayout settles a round: pays the (possibly zero) payout into the
// available balance and releases whatever was locked for the round. One
// entry per logical effect, never conflated.
func (l *Ledger) CreditPayout(tx *gorm.DB, user *models.User, payout, unlock float64, betID string) error {
	if unlock > 0 {
		if err := l.append(tx, user, models.TransactionTypeUnlock, -unlock, &betID, ""); err != nil {
			return err
		}
	}
	if payout > 0 {
		if err := l.append(tx, user, models.TransactionTypePayout, payout, &betID, ""); err != nil {
			return err
		}
		user.TotalWon = models.RoundAmount(user.TotalWon + payout)
	}
	return nil
}

// Credit applies an external credit or debit (bonus, deposit, withdraw)
// in its own transaction. Eligibility and cooldowns belong to the calling
// collaborator; the ledger only guarantees atomicity and the audit trail.
func (l *Ledger) Credit(ctx context.Context, userID int64, amount float64, typ models.TransactionType, reference string) (*models.User, error) {
	var user *models.User

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = l.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		if amount < 0 && user.AvailableBalance < -amount {
			return fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, user.AvailableBalance, -amount)
		}

		if err := l.append(tx, user, typ, amount, nil, reference); err != nil {
			return err
		}
		return l.users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"type":      typ,
		"amount":    amount,
		"reference": reference,
	}).Info("external credit applied")

	return user, nil
}

// ReplayBalances folds a user's entries in order and returns the balances
// they produce. The ledger is the source of truth; the cached projection
// must match this exactly.
func ReplayBalances(txns []models.Transaction) (available, locked float64) {
	for _, txn := range txns {
		if txn.Type.AffectsLocked() {
			locked = models.RoundAmount(locked + txn.Amount)
		} else {
			available = models.RoundAmount(available + txn.Amount)
		}
	}
	return available, locked
}

// VerifyReplay audits one user: replaying the full log must reproduce the
// cached balances. Divergence is an integrity violation.
func (l *Ledger) VerifyReplay(ctx context.Context, userID int64) error {
	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	txns, err := l.txns.ListByUserForReplay(ctx, userID)
	if err != nil {
		return err
	}

	available, locked := ReplayBalances(txns)
	if available != user.AvailableBalance || locked != user.LockedBalance {
		l.log.WithFields(logrus.Fields{
			"user_id":          userID,
			"cached_available": user.AvailableBalance,
			"cached_locked":    user.LockedBalance,
			"replay_available": available,
			"replay_locked":    locked,
			"entries":          len(txns),
		}).Error("ledger replay divergence")
		return fmt.Errorf("%w: replay does not reproduce balances for user %d", ErrIntegrity, userID)
	}
	return nil
}
