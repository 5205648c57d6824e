package models

import "time"

// User carries the wagering-relevant state only. Identity, profile and
// session data live with the auth service.
//
// AvailableBalance and LockedBalance are cached projections of the
// transaction log; the log is the source of truth. Funds are either
// spendable or committed to an open round, never both.
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`

	AvailableBalance float64 `json:"available_balance" gorm:"not null;default:0"`
	LockedBalance    float64 `json:"locked_balance" gorm:"not null;default:0"`

	// Provably fair seed pair. ServerSeed stays hidden until the pair is
	// rotated; only its hash is public while bets are placed against it.
	ClientSeed     string `json:"client_seed" gorm:"not null"`
	ServerSeed     string `json:"-" gorm:"not null"`
	ServerSeedHash string `json:"server_seed_hash" gorm:"not null"`
	Nonce          int64  `json:"nonce" gorm:"not null;default:0"`

	// TxSeq numbers this user's ledger entries; bumped once per entry under
	// the same row lock as the balance change.
	TxSeq int64 `json:"-" gorm:"not null;default:0"`

	TotalWagered float64 `json:"total_wagered" gorm:"not null;default:0"`
	TotalWon     float64 `json:"total_won" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BalanceResponse struct {
	Available    float64 `json:"available"`
	Locked       float64 `json:"locked"`
	TotalWagered float64 `json:"total_wagered"`
	TotalWon     float64 `json:"total_won"`
}
