package games_test

import (
	"math"
	"testing"

	"casino-engine-backend/internal/fair"
	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

const testRTP = 0.96

func TestPlayDiceMultiplier(t *testing.T) {
	p := models.DiceParams{Target: 50, Over: false}

	_, mult := games.PlayDice(p, 0.25, testRTP)
	if mult != 1.92 {
		t.Errorf("expected multiplier 1.92 for target 50, got %v", mult)
	}

	res, _ := games.PlayDice(p, 0.25, testRTP)
	if !res.Win {
		t.Errorf("roll %.2f under 50 should win", res.Roll)
	}

	res, _ = games.PlayDice(p, 0.75, testRTP)
	if res.Win {
		t.Errorf("roll %.2f under 50 should lose", res.Roll)
	}
}

func TestPlayDiceOver(t *testing.T) {
	p := models.DiceParams{Target: 90, Over: true}

	_, mult := games.PlayDice(p, 0.5, testRTP)
	if mult != 9.6 {
		t.Errorf("expected multiplier 9.6 for over 90, got %v", mult)
	}

	res, _ := games.PlayDice(p, 0.999, testRTP)
	if !res.Win {
		t.Errorf("roll %.2f over 90 should win", res.Roll)
	}
}

// With target 50 under, 100k derived draws should return close to the
// configured RTP.
func TestDiceRTPConvergence(t *testing.T) {
	p := models.DiceParams{Target: 50, Over: false}
	serverSeed := "dice-convergence-server-seed"

	const rounds = 100000
	var returned float64

	for nonce := int64(0); nonce < rounds; nonce++ {
		f := fair.DeriveFloats(serverSeed, "client", nonce, 0, 1)[0]
		res, mult := games.PlayDice(p, f, testRTP)
		if res.Win {
			returned += mult
		}
	}

	actual := returned / rounds
	if math.Abs(actual-testRTP) > 0.02 {
		t.Errorf("observed RTP %.4f too far from configured %.2f", actual, testRTP)
	}
}

func TestDiceValidation(t *testing.T) {
	for _, target := range []float64{0, -1, 100, 99.999} {
		err := games.Validate(models.GameTypeDice, models.GameParams{
			Dice: &models.DiceParams{Target: target},
		})
		if err == nil {
			t.Errorf("target %v should be rejected", target)
		}
	}

	if err := games.Validate(models.GameTypeDice, models.GameParams{}); err == nil {
		t.Error("missing dice params should be rejected")
	}

	err := games.Validate(models.GameTypeDice, models.GameParams{
		Dice: &models.DiceParams{Target: 50},
	})
	if err != nil {
		t.Errorf("target 50 should be accepted: %v", err)
	}
}

func TestPlayCoinflip(t *testing.T) {
	p := models.CoinflipParams{Pick: games.SideHeads}

	res, mult := games.PlayCoinflip(p, 0.2, testRTP)
	if res.Side != games.SideHeads || !res.Win {
		t.Errorf("float 0.2 should land heads and win, got %+v", res)
	}
	if mult != 1.92 {
		t.Errorf("expected coinflip multiplier 1.92, got %v", mult)
	}

	res, _ = games.PlayCoinflip(p, 0.7, testRTP)
	if res.Side != games.SideTails || res.Win {
		t.Errorf("float 0.7 should land tails and lose, got %+v", res)
	}
}

func TestCoinflipValidation(t *testing.T) {
	err := games.Validate(models.GameTypeCoinflip, models.GameParams{
		Coinflip: &models.CoinflipParams{Pick: "edge"},
	})
	if err == nil {
		t.Error("pick other than heads/tails should be rejected")
	}
}
