package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"casino-engine-backend/internal/fair"
	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

var blackjackMachine = NewMachine().
	Allow(games.BlackjackPhasePlayer, string(models.ActionHit), games.BlackjackPhasePlayer).
	Allow(games.BlackjackPhasePlayer, string(models.ActionStand), games.BlackjackPhaseSettled).
	Allow(games.BlackjackPhasePlayer, string(models.ActionDouble), games.BlackjackPhaseSettled).
	Terminal(games.BlackjackPhaseSettled)

// advanceBlackjack applies one player action. Cards are drawn through the
// round's session cursor, so the hand consumes successive floats of the
// same nonce and replays identically from the persisted state.
func (e *Engine) advanceBlackjack(tx *gorm.DB, user *models.User, bet *models.Bet, action models.RoundAction) error {
	var state models.BlackjackState
	if err := json.Unmarshal(bet.Result, &state); err != nil {
		return fmt.Errorf("%w: unreadable blackjack state for bet %s: %v", ErrIntegrity, bet.ID, err)
	}

	if _, err := blackjackMachine.Next(state.Phase, string(action.Type)); err != nil {
		return err
	}

	draw := func() int {
		f := fair.DeriveFloats(bet.ServerSeed, bet.ClientSeed, bet.Nonce, state.NextCursor, 1)[0]
		state.NextCursor++
		return games.DrawCard(f)
	}

	switch action.Type {
	case models.ActionHit:
		state.PlayerCards = append(state.PlayerCards, draw())

		total, _ := games.HandValue(state.PlayerCards)
		switch {
		case total > 21:
			// A busted hand loses outright; the dealer never draws.
			return e.settleBlackjack(tx, user, bet, &state)
		case total == 21:
			// Nothing left to decide at 21; the hand stands on its own.
			state.DealerCards = games.DealerPlay(state.DealerCards, draw)
			return e.settleBlackjack(tx, user, bet, &state)
		default:
			return setResult(bet, state)
		}

	case models.ActionStand:
		state.DealerCards = games.DealerPlay(state.DealerCards, draw)
		return e.settleBlackjack(tx, user, bet, &state)

	case models.ActionDouble:
		if len(state.PlayerCards) != 2 || state.Doubled {
			return fmt.Errorf("%w: double is only available on the opening two cards", ErrInvalidTransition)
		}

		// The doubled half is a second wager against the same round: debited
		// and locked like the first, so a crash between here and settlement
		// still replays cleanly.
		if err := e.ledger.DebitWager(tx, user, bet.BetAmount, true, bet.ID); err != nil {
			return err
		}
		bet.BetAmount = models.RoundAmount(bet.BetAmount * 2)
		state.Doubled = true

		state.PlayerCards = append(state.PlayerCards, draw())
		if total, _ := games.HandValue(state.PlayerCards); total <= 21 {
			state.DealerCards = games.DealerPlay(state.DealerCards, draw)
		}
		return e.settleBlackjack(tx, user, bet, &state)

	default:
		return fmt.Errorf("%w: blackjack does not accept %q", ErrInvalidTransition, action.Type)
	}
}

// settleBlackjack resolves both hands and closes the round.
func (e *Engine) settleBlackjack(tx *gorm.DB, user *models.User, bet *models.Bet, state *models.BlackjackState) error {
	outcome, mult := games.ResolveHands(state.PlayerCards, state.DealerCards, e.cfg.RTP)
	state.Phase = games.BlackjackPhaseSettled
	state.Outcome = outcome

	return e.settle(tx, user, bet, *state, mult)
}
