package models

import (
	"time"

	"gorm.io/datatypes"
)

type GameType string

const (
	GameTypeDice      GameType = "dice"
	GameTypeCoinflip  GameType = "coinflip"
	GameTypeMines     GameType = "mines"
	GameTypePlinko    GameType = "plinko"
	GameTypeRoulette  GameType = "roulette"
	GameTypeBlackjack GameType = "blackjack"
)

// MultiStep reports whether a game spans several requests and therefore
// locks the wager instead of settling it immediately.
func (g GameType) MultiStep() bool {
	return g == GameTypeMines || g == GameTypeBlackjack
}

// Bet is the permanent audit record of one wager or round. Once Active
// drops to false the outcome fields never change again.
type Bet struct {
	ID     string   `json:"id" gorm:"type:uuid;primaryKey"`
	UserID int64    `json:"user_id" gorm:"not null;index;uniqueIndex:uniq_bet_draw,priority:1"`
	Game   GameType `json:"game" gorm:"not null"`

	BetAmount        float64  `json:"bet_amount" gorm:"not null"`
	PayoutMultiplier *float64 `json:"payout_multiplier"`
	Profit           *float64 `json:"profit"`
	Won              *bool    `json:"won"`

	// The exact randomness inputs consumed by this round. The unique index
	// spans the full tuple: a client seed change restarts the nonce against
	// the same server seed, so the client seed must disambiguate.
	ClientSeed     string `json:"client_seed" gorm:"not null;uniqueIndex:uniq_bet_draw,priority:2"`
	ServerSeed     string `json:"-" gorm:"not null"`
	ServerSeedHash string `json:"server_seed_hash" gorm:"not null;uniqueIndex:uniq_bet_draw,priority:3"`
	Nonce          int64  `json:"nonce" gorm:"not null;uniqueIndex:uniq_bet_draw,priority:4"`
	RngProof       string `json:"rng_proof" gorm:"not null"`

	Result datatypes.JSON `json:"result" gorm:"type:jsonb"`

	Active       bool `json:"active" gorm:"not null;index:,where:active"`
	PayoutCapped bool `json:"payout_capped,omitempty" gorm:"not null;default:false"`

	IdempotencyKey string `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at"`
}
