package games

import "casino-engine-backend/internal/models"

const (
	BlackjackPhasePlayer  = "player_turn"
	BlackjackPhaseSettled = "settled"

	BlackjackOutcomeWin       = "win"
	BlackjackOutcomeLose      = "lose"
	BlackjackOutcomePush      = "push"
	BlackjackOutcomeBlackjack = "blackjack"

	blackjackDealerStand = 17
	shoeSize             = 52
)

// DrawCard maps one float to a card index in an infinite shoe.
func DrawCard(f float64) int {
	return int(f * shoeSize)
}

// CardRank is 0 for ace, 1-9 for the pip cards 2-10, 10-12 for the faces.
func CardRank(card int) int {
	return card % 13
}

// HandValue totals a hand, counting one ace as 11 when that does not bust
// (a soft total).
func HandValue(cards []int) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		switch rank := CardRank(c); {
		case rank == 0:
			aces++
			total++
		case rank >= 10:
			total += 10
		default:
			total += rank + 1
		}
	}

	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

// IsNatural reports a two-card 21.
func IsNatural(cards []int) bool {
	if len(cards) != 2 {
		return false
	}
	total, _ := HandValue(cards)
	return total == 21
}

// DealerPlay draws until the dealer reaches 17; the dealer stands on all
// 17s, soft included.
func DealerPlay(cards []int, next func() int) []int {
	hand := append([]int(nil), cards...)
	for {
		total, _ := HandValue(hand)
		if total >= blackjackDealerStand {
			return hand
		}
		hand = append(hand, next())
	}
}

// ResolveHands settles a finished pair of hands. Pure: given the same
// hands it always produces the same outcome and multiplier. An untied
// natural pays 3:2; wins are even money; pushes return the stake
// unscaled.
func ResolveHands(player, dealer []int, rtp float64) (string, float64) {
	playerTotal, _ := HandValue(player)
	dealerTotal, _ := HandValue(dealer)

	playerNatural := IsNatural(player)
	dealerNatural := IsNatural(dealer)

	switch {
	case playerTotal > 21:
		return BlackjackOutcomeLose, 0
	case playerNatural && dealerNatural:
		return BlackjackOutcomePush, 1
	case playerNatural:
		return BlackjackOutcomeBlackjack, models.RoundMultiplier(2.5 * rtp)
	case dealerNatural:
		return BlackjackOutcomeLose, 0
	case dealerTotal > 21:
		return BlackjackOutcomeWin, models.RoundMultiplier(2 * rtp)
	case playerTotal > dealerTotal:
		return BlackjackOutcomeWin, models.RoundMultiplier(2 * rtp)
	case playerTotal == dealerTotal:
		return BlackjackOutcomePush, 1
	default:
		return BlackjackOutcomeLose, 0
	}
}

// NewBlackjackState deals the opening hands from the first four floats:
// player, dealer, player, dealer.
func NewBlackjackState(floats []float64) models.BlackjackState {
	return models.BlackjackState{
		Phase:       BlackjackPhasePlayer,
		PlayerCards: []int{DrawCard(floats[0]), DrawCard(floats[2])},
		DealerCards: []int{DrawCard(floats[1]), DrawCard(floats[3])},
		NextCursor:  4,
	}
}
