package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

const (
	minesEventRevealSafe = "reveal_safe"
	minesEventRevealMine = "reveal_mine"
	minesEventCashOut    = "cashout"
)

var minesMachine = NewMachine().
	Allow(games.MinesPhaseActive, minesEventRevealSafe, games.MinesPhaseActive).
	Allow(games.MinesPhaseActive, minesEventRevealMine, games.MinesPhaseBusted).
	Allow(games.MinesPhaseActive, minesEventCashOut, games.MinesPhaseCashedOut).
	Terminal(games.MinesPhaseBusted).
	Terminal(games.MinesPhaseCashedOut)

// advanceMines applies one tile reveal. Revealing a mine busts the round
// and forfeits the locked stake; revealing the last safe tile cashes out
// automatically at the full-board multiplier.
func (e *Engine) advanceMines(tx *gorm.DB, user *models.User, bet *models.Bet, action models.RoundAction) error {
	if action.Type != models.ActionReveal {
		return fmt.Errorf("%w: mines only accepts %q", ErrInvalidTransition, models.ActionReveal)
	}

	var state models.MinesState
	if err := json.Unmarshal(bet.Result, &state); err != nil {
		return fmt.Errorf("%w: unreadable mines state for bet %s: %v", ErrIntegrity, bet.ID, err)
	}

	cell := action.Cell
	if cell < 0 || cell >= state.GridSize {
		return fmt.Errorf("%w: cell %d outside grid", ErrInvalidParams, cell)
	}
	for _, r := range state.Revealed {
		if r == cell {
			return fmt.Errorf("%w: cell %d already revealed", ErrInvalidTransition, cell)
		}
	}

	event := minesEventRevealSafe
	for _, m := range state.Mines {
		if m == cell {
			event = minesEventRevealMine
			break
		}
	}

	phase, err := minesMachine.Next(state.Phase, event)
	if err != nil {
		return err
	}
	state.Phase = phase

	if event == minesEventRevealMine {
		state.HitMine = &cell
		state.Multiplier = 0
		return e.settle(tx, user, bet, state, 0)
	}

	state.Revealed = append(state.Revealed, cell)
	state.Multiplier = games.MinesMultiplier(state.GridSize, state.MineCount, len(state.Revealed), e.cfg.RTP)

	// Clearing the whole board leaves nothing to reveal; the round cashes
	// out on its own.
	if len(state.Revealed) == state.GridSize-state.MineCount {
		state.Phase = games.MinesPhaseCashedOut
		return e.settle(tx, user, bet, state, state.Multiplier)
	}

	return setResult(bet, state)
}

// cashOutMines ends the round at the multiplier already earned. A round
// with no reveals has earned nothing and is refused rather than refunded.
func (e *Engine) cashOutMines(tx *gorm.DB, user *models.User, bet *models.Bet) error {
	var state models.MinesState
	if err := json.Unmarshal(bet.Result, &state); err != nil {
		return fmt.Errorf("%w: unreadable mines state for bet %s: %v", ErrIntegrity, bet.ID, err)
	}

	if len(state.Revealed) == 0 {
		return fmt.Errorf("%w: no tiles revealed", ErrNothingToCashOut)
	}

	phase, err := minesMachine.Next(state.Phase, minesEventCashOut)
	if err != nil {
		return err
	}
	state.Phase = phase

	return e.settle(tx, user, bet, state, state.Multiplier)
}
