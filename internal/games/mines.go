package games

import (
	"fmt"
	"sort"

	"casino-engine-backend/internal/models"
)

const MinesGridSize = 25

const (
	MinesPhaseActive    = "active"
	MinesPhaseBusted    = "busted"
	MinesPhaseCashedOut = "cashed_out"
)

func validateMines(p *models.MinesParams) error {
	if p == nil {
		return fmt.Errorf("%w: missing mines params", ErrInvalidParams)
	}
	if p.MineCount < 1 || p.MineCount >= MinesGridSize {
		return fmt.Errorf("%w: mine count %d outside [1, %d]", ErrInvalidParams, p.MineCount, MinesGridSize-1)
	}
	return nil
}

// MineLayout draws mineCount distinct cells with a seeded partial
// Fisher-Yates over the grid indexes, one float per pick. The same floats
// always produce the same layout, which is what makes a busted round
// verifiable after the seed reveal.
func MineLayout(floats []float64, gridSize, mineCount int) []int {
	cells := make([]int, gridSize)
	for i := range cells {
		cells[i] = i
	}

	mines := make([]int, 0, mineCount)
	for i := 0; i < mineCount; i++ {
		j := i + int(floats[i]*float64(gridSize-i))
		cells[i], cells[j] = cells[j], cells[i]
		mines = append(mines, cells[i])
	}

	sort.Ints(mines)
	return mines
}

// MinesMultiplier is the payout after `revealed` safe reveals: RTP over the
// hypergeometric probability of surviving that many picks. Recomputed from
// scratch on every step so a live round and a post-hoc verification can
// never disagree.
func MinesMultiplier(gridSize, mineCount, revealed int, rtp float64) float64 {
	if revealed == 0 {
		return 1
	}

	odds := 1.0
	for i := 0; i < revealed; i++ {
		odds *= float64(gridSize-i) / float64(gridSize-mineCount-i)
	}

	return models.RoundMultiplier(rtp * odds)
}

// NewMinesState builds the round state persisted on the bet at start.
func NewMinesState(floats []float64, p models.MinesParams) models.MinesState {
	return models.MinesState{
		Phase:      MinesPhaseActive,
		GridSize:   MinesGridSize,
		MineCount:  p.MineCount,
		Mines:      MineLayout(floats, MinesGridSize, p.MineCount),
		Revealed:   []int{},
		Multiplier: 1,
	}
}
