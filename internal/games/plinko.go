package games

import (
	"fmt"

	"casino-engine-backend/internal/models"
)

// Base multiplier tables per risk tier and row count. These are house
// policy shapes, not fair odds: NewPlinkoTables rescales each one once at
// startup so the probability-weighted average payout equals the configured
// RTP exactly.
var plinkoBaseTables = map[models.PlinkoRisk]map[int][]float64{
	models.PlinkoRiskLow: {
		8:  {5.6, 2.1, 1.1, 1, 0.5, 1, 1.1, 2.1, 5.6},
		12: {10, 3, 1.6, 1.4, 1.1, 1, 0.5, 1, 1.1, 1.4, 1.6, 3, 10},
		16: {16, 9, 2, 1.4, 1.4, 1.2, 1.1, 1, 0.5, 1, 1.1, 1.2, 1.4, 1.4, 2, 9, 16},
	},
	models.PlinkoRiskMedium: {
		8:  {13, 3, 1.3, 0.7, 0.4, 0.7, 1.3, 3, 13},
		12: {33, 11, 4, 2, 1.1, 0.6, 0.3, 0.6, 1.1, 2, 4, 11, 33},
		16: {110, 41, 10, 5, 3, 1.5, 1, 0.5, 0.3, 0.5, 1, 1.5, 3, 5, 10, 41, 110},
	},
	models.PlinkoRiskHigh: {
		8:  {29, 4, 1.5, 0.3, 0.2, 0.3, 1.5, 4, 29},
		12: {170, 24, 8.1, 2, 0.7, 0.2, 0.2, 0.2, 0.7, 2, 8.1, 24, 170},
		16: {1000, 130, 26, 9, 4, 2, 0.2, 0.2, 0.2, 0.2, 0.2, 2, 4, 9, 26, 130, 1000},
	},
}

func validatePlinko(p *models.PlinkoParams) error {
	if p == nil {
		return fmt.Errorf("%w: missing plinko params", ErrInvalidParams)
	}
	if p.Rows != 8 && p.Rows != 12 && p.Rows != 16 {
		return fmt.Errorf("%w: plinko rows must be 8, 12 or 16", ErrInvalidParams)
	}
	switch p.Risk {
	case models.PlinkoRiskLow, models.PlinkoRiskMedium, models.PlinkoRiskHigh:
		return nil
	default:
		return fmt.Errorf("%w: unknown plinko risk %q", ErrInvalidParams, p.Risk)
	}
}

// PlinkoTables holds the normalized multiplier tables. Built once at
// startup, never per spin.
type PlinkoTables struct {
	tables map[models.PlinkoRisk]map[int][]float64
}

// bucketWeight is the binomial probability of landing in bucket k after
// rows fair left/right steps: C(rows, k) / 2^rows.
func bucketWeight(rows, k int) float64 {
	c := 1.0
	for i := 0; i < k; i++ {
		c = c * float64(rows-i) / float64(i+1)
	}
	return c / float64(uint64(1)<<uint(rows))
}

func NewPlinkoTables(rtp float64) *PlinkoTables {
	tables := make(map[models.PlinkoRisk]map[int][]float64, len(plinkoBaseTables))

	for risk, byRows := range plinkoBaseTables {
		tables[risk] = make(map[int][]float64, len(byRows))
		for rows, base := range byRows {
			var mean float64
			for k, m := range base {
				mean += bucketWeight(rows, k) * m
			}

			factor := rtp / mean
			normalized := make([]float64, len(base))
			for k, m := range base {
				normalized[k] = m * factor
			}
			tables[risk][rows] = normalized
		}
	}

	return &PlinkoTables{tables: tables}
}

// Multiplier returns the settled (rounded) multiplier for a bucket.
func (t *PlinkoTables) Multiplier(risk models.PlinkoRisk, rows, bucket int) float64 {
	return models.RoundMultiplier(t.tables[risk][rows][bucket])
}

// MeanMultiplier is the probability-weighted average of a normalized table;
// equals the configured RTP up to floating point.
func (t *PlinkoTables) MeanMultiplier(risk models.PlinkoRisk, rows int) float64 {
	var mean float64
	for k, m := range t.tables[risk][rows] {
		mean += bucketWeight(rows, k) * m
	}
	return mean
}

// PlayPlinko consumes one float per row; each float below 0.5 steps left,
// otherwise right, and the count of rights is the final bucket.
func PlayPlinko(p models.PlinkoParams, floats []float64, tables *PlinkoTables) (models.PlinkoResult, float64) {
	path := make([]int, p.Rows)
	bucket := 0
	for i, f := range floats[:p.Rows] {
		if f >= 0.5 {
			path[i] = 1
			bucket++
		}
	}

	mult := tables.Multiplier(p.Risk, p.Rows, bucket)

	return models.PlinkoResult{
		Rows:       p.Rows,
		Risk:       p.Risk,
		Path:       path,
		Bucket:     bucket,
		Multiplier: mult,
	}, mult
}
