// Package games holds one pure outcome calculator per game. Every
// calculator maps an already-derived float stream plus parameters to a
// result payload and a payout multiplier; nothing here touches storage or
// draws randomness of its own, so a settled outcome can be recomputed from
// the revealed seeds at any time.
package games

import (
	"errors"
	"fmt"

	"casino-engine-backend/internal/models"
)

var ErrInvalidParams = errors.New("invalid game parameters")

// Validate rejects out-of-range parameters before any randomness is drawn.
// The switch is exhaustive over the supported game types.
func Validate(game models.GameType, p models.GameParams) error {
	switch game {
	case models.GameTypeDice:
		return validateDice(p.Dice)
	case models.GameTypeCoinflip:
		return validateCoinflip(p.Coinflip)
	case models.GameTypeMines:
		return validateMines(p.Mines)
	case models.GameTypePlinko:
		return validatePlinko(p.Plinko)
	case models.GameTypeRoulette:
		return errors.New("roulette params are validated against the wager amount")
	case models.GameTypeBlackjack:
		return nil
	default:
		return fmt.Errorf("%w: unknown game %q", ErrInvalidParams, game)
	}
}

// FloatsNeeded reports how many floats a game consumes at round start.
// Blackjack deals four cards up front and draws the rest lazily through
// the session cursor.
func FloatsNeeded(game models.GameType, p models.GameParams) int {
	switch game {
	case models.GameTypeDice, models.GameTypeCoinflip, models.GameTypeRoulette:
		return 1
	case models.GameTypeMines:
		if p.Mines == nil {
			return 0
		}
		return p.Mines.MineCount
	case models.GameTypePlinko:
		if p.Plinko == nil {
			return 0
		}
		return p.Plinko.Rows
	case models.GameTypeBlackjack:
		return 4
	default:
		return 0
	}
}
