package models

import "time"

type TransactionType string

const (
	TransactionTypeWager    TransactionType = "wager"
	TransactionTypePayout   TransactionType = "payout"
	TransactionTypeBonus    TransactionType = "bonus"
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeLock     TransactionType = "lock"
	TransactionTypeUnlock   TransactionType = "unlock"
)

// AffectsLocked reports which balance a transaction type applies to.
// Lock and unlock entries move the locked balance; everything else moves
// the available balance.
func (t TransactionType) AffectsLocked() bool {
	return t == TransactionTypeLock || t == TransactionTypeUnlock
}

// Transaction is one immutable, append-only ledger entry. Amount is signed
// and applies to exactly one balance; BalanceBefore/BalanceAfter snapshot
// that balance. Replaying all of a user's entries in creation order must
// reproduce both cached balances exactly.
type Transaction struct {
	ID     string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID int64           `json:"user_id" gorm:"not null;index:idx_tx_user_seq,priority:1"`
	Type   TransactionType `json:"type" gorm:"not null"`

	Amount        float64 `json:"amount" gorm:"not null"`
	BalanceBefore float64 `json:"balance_before" gorm:"not null"`
	BalanceAfter  float64 `json:"balance_after" gorm:"not null"`

	// Seq orders a user's entries for replay; assigned inside the same
	// row-locked transaction as the balance mutation.
	Seq int64 `json:"seq" gorm:"not null;index:idx_tx_user_seq,priority:2"`

	BetID     *string   `json:"bet_id,omitempty" gorm:"type:uuid;index"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
