package games

import (
	"fmt"

	"casino-engine-backend/internal/models"
)

const (
	SideHeads = "heads"
	SideTails = "tails"
)

func validateCoinflip(p *models.CoinflipParams) error {
	if p == nil {
		return fmt.Errorf("%w: missing coinflip params", ErrInvalidParams)
	}
	if p.Pick != SideHeads && p.Pick != SideTails {
		return fmt.Errorf("%w: coinflip pick must be %q or %q", ErrInvalidParams, SideHeads, SideTails)
	}
	return nil
}

// PlayCoinflip cuts one float at 0.5; multiplier = 2 * RTP.
func PlayCoinflip(p models.CoinflipParams, f float64, rtp float64) (models.CoinflipResult, float64) {
	side := SideTails
	if f < 0.5 {
		side = SideHeads
	}

	return models.CoinflipResult{
		Side: side,
		Pick: p.Pick,
		Win:  side == p.Pick,
	}, models.RoundMultiplier(2 * rtp)
}
