package games

import (
	"fmt"
	"math"

	"casino-engine-backend/internal/models"
)

// European wheel: pockets 0-36, single zero.
const roulettePockets = 37

var rouletteRed = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func PocketColor(pocket int) string {
	switch {
	case pocket == 0:
		return "green"
	case rouletteRed[pocket]:
		return "red"
	default:
		return "black"
	}
}

// winningPockets per bet type; fair payout is 37 / winningPockets.
func rouletteWinning(t models.RouletteBetType) int {
	switch t {
	case models.RouletteBetStraight:
		return 1
	case models.RouletteBetDozen, models.RouletteBetColumn:
		return 12
	default: // the even-money predicates
		return 18
	}
}

// ValidateRoulette checks every predicate and requires the per-bet amounts
// to sum to the wager.
func ValidateRoulette(p *models.RouletteParams, betAmount float64) error {
	if p == nil || len(p.Bets) == 0 {
		return fmt.Errorf("%w: roulette requires at least one bet", ErrInvalidParams)
	}

	var total float64
	for _, b := range p.Bets {
		if b.Amount <= 0 {
			return fmt.Errorf("%w: roulette bet amount must be positive", ErrInvalidParams)
		}
		total += b.Amount

		switch b.Type {
		case models.RouletteBetStraight:
			if b.Pick < 0 || b.Pick > 36 {
				return fmt.Errorf("%w: straight pick %d outside [0, 36]", ErrInvalidParams, b.Pick)
			}
		case models.RouletteBetDozen, models.RouletteBetColumn:
			if b.Pick < 1 || b.Pick > 3 {
				return fmt.Errorf("%w: %s pick %d outside [1, 3]", ErrInvalidParams, b.Type, b.Pick)
			}
		case models.RouletteBetRed, models.RouletteBetBlack,
			models.RouletteBetOdd, models.RouletteBetEven,
			models.RouletteBetLow, models.RouletteBetHigh:
		default:
			return fmt.Errorf("%w: unknown roulette bet type %q", ErrInvalidParams, b.Type)
		}
	}

	if math.Abs(total-betAmount) > 0.001 {
		return fmt.Errorf("%w: roulette bets sum to %.2f, wager is %.2f", ErrInvalidParams, total, betAmount)
	}
	return nil
}

func rouletteHit(b models.RouletteBet, pocket int) bool {
	switch b.Type {
	case models.RouletteBetStraight:
		return pocket == b.Pick
	case models.RouletteBetRed:
		return rouletteRed[pocket]
	case models.RouletteBetBlack:
		return pocket != 0 && !rouletteRed[pocket]
	case models.RouletteBetOdd:
		return pocket != 0 && pocket%2 == 1
	case models.RouletteBetEven:
		return pocket != 0 && pocket%2 == 0
	case models.RouletteBetLow:
		return pocket >= 1 && pocket <= 18
	case models.RouletteBetHigh:
		return pocket >= 19
	case models.RouletteBetDozen:
		return pocket != 0 && (pocket-1)/12 == b.Pick-1
	case models.RouletteBetColumn:
		return pocket != 0 && (pocket-1)%3 == b.Pick-1
	default:
		return false
	}
}

// PlayRoulette spins one pocket from a single float and settles every
// predicate against it. The returned multiplier is total payout over total
// wager, aggregated unrounded; money rounding happens only at settlement.
func PlayRoulette(p models.RouletteParams, f float64, rtp float64) (models.RouletteResult, float64) {
	pocket := int(f * roulettePockets)

	var betTotal, payoutTotal float64
	wins := []models.RouletteWin{}

	for _, b := range p.Bets {
		betTotal += b.Amount
		if !rouletteHit(b, pocket) {
			continue
		}

		fair := float64(roulettePockets) / float64(rouletteWinning(b.Type))
		payout := b.Amount * fair * rtp
		payoutTotal += payout

		wins = append(wins, models.RouletteWin{Type: b.Type, Pick: b.Pick, Payout: models.RoundAmount(payout)})
	}

	return models.RouletteResult{
		Pocket: pocket,
		Color:  PocketColor(pocket),
		Bets:   p.Bets,
		Wins:   wins,
	}, models.RoundMultiplier(payoutTotal / betTotal)
}
