package games

import (
	"fmt"
	"math"

	"casino-engine-backend/internal/models"
)

// Dice rolls have 10001 possible outcomes, 00.00 through 100.00.
const diceOutcomes = 10001

func validateDice(p *models.DiceParams) error {
	if p == nil {
		return fmt.Errorf("%w: missing dice params", ErrInvalidParams)
	}
	if p.Target < 0.01 || p.Target > 99.99 {
		return fmt.Errorf("%w: dice target %.2f outside [0.01, 99.99]", ErrInvalidParams, p.Target)
	}
	return nil
}

func diceWinChance(p models.DiceParams) float64 {
	if p.Over {
		return 100 - p.Target
	}
	return p.Target
}

// PlayDice maps one float to a roll and settles the chosen comparison.
// multiplier = (range / winning range) * RTP.
func PlayDice(p models.DiceParams, f float64, rtp float64) (models.DiceResult, float64) {
	roll := math.Floor(f*diceOutcomes) / 100

	var win bool
	if p.Over {
		win = roll > p.Target
	} else {
		win = roll < p.Target
	}

	mult := models.RoundMultiplier(100 / diceWinChance(p) * rtp)

	return models.DiceResult{
		Roll:   roll,
		Target: p.Target,
		Over:   p.Over,
		Win:    win,
	}, mult
}
