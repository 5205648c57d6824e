package games_test

import (
	"testing"

	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
)

func TestRouletteStraight(t *testing.T) {
	p := models.RouletteParams{Bets: []models.RouletteBet{
		{Type: models.RouletteBetStraight, Pick: 7, Amount: 10},
	}}

	// float chosen so the pocket is 7: 7/37 <= f < 8/37
	res, mult := games.PlayRoulette(p, 7.5/37.0, testRTP)
	if res.Pocket != 7 {
		t.Fatalf("expected pocket 7, got %d", res.Pocket)
	}
	if len(res.Wins) != 1 {
		t.Fatalf("straight 7 should win on pocket 7")
	}

	// fair 37x scaled by RTP
	want := models.RoundMultiplier(37 * testRTP)
	if mult != want {
		t.Errorf("expected multiplier %v, got %v", want, mult)
	}
}

func TestRouletteEvenMoneyAndZero(t *testing.T) {
	p := models.RouletteParams{Bets: []models.RouletteBet{
		{Type: models.RouletteBetRed, Amount: 5},
		{Type: models.RouletteBetEven, Amount: 5},
	}}

	// pocket 0 loses every even-money predicate
	res, mult := games.PlayRoulette(p, 0.0, testRTP)
	if res.Pocket != 0 || res.Color != "green" {
		t.Fatalf("expected green zero, got %d %s", res.Pocket, res.Color)
	}
	if len(res.Wins) != 0 || mult != 0 {
		t.Errorf("zero should lose red and even, got wins=%v mult=%v", res.Wins, mult)
	}

	// pocket 12 is red and even: both predicates pay 37/18 * RTP
	res, mult = games.PlayRoulette(p, 12.5/37.0, testRTP)
	if res.Pocket != 12 {
		t.Fatalf("expected pocket 12, got %d", res.Pocket)
	}
	if len(res.Wins) != 2 {
		t.Errorf("pocket 12 should win red and even, got %v", res.Wins)
	}

	want := models.RoundMultiplier(37.0 / 18.0 * testRTP)
	if mult != want {
		t.Errorf("expected combined multiplier %v, got %v", want, mult)
	}
}

func TestRouletteDozenColumn(t *testing.T) {
	p := models.RouletteParams{Bets: []models.RouletteBet{
		{Type: models.RouletteBetDozen, Pick: 2, Amount: 10},
	}}

	// pocket 17 is in the second dozen (13-24)
	res, mult := games.PlayRoulette(p, 17.5/37.0, testRTP)
	if res.Pocket != 17 {
		t.Fatalf("expected pocket 17, got %d", res.Pocket)
	}
	if len(res.Wins) != 1 {
		t.Errorf("dozen 2 should win on 17")
	}
	if want := models.RoundMultiplier(37.0 / 12.0 * testRTP); mult != want {
		t.Errorf("expected %v, got %v", want, mult)
	}

	col := models.RouletteParams{Bets: []models.RouletteBet{
		{Type: models.RouletteBetColumn, Pick: 2, Amount: 10},
	}}

	// pocket 17 sits in the second column (2, 5, 8, ...)
	res, _ = games.PlayRoulette(col, 17.5/37.0, testRTP)
	if len(res.Wins) != 1 {
		t.Errorf("column 2 should win on 17")
	}
}

func TestRouletteValidation(t *testing.T) {
	cases := []struct {
		name   string
		params models.RouletteParams
		amount float64
	}{
		{"no bets", models.RouletteParams{}, 10},
		{"bad straight", models.RouletteParams{Bets: []models.RouletteBet{
			{Type: models.RouletteBetStraight, Pick: 37, Amount: 10}}}, 10},
		{"bad dozen", models.RouletteParams{Bets: []models.RouletteBet{
			{Type: models.RouletteBetDozen, Pick: 0, Amount: 10}}}, 10},
		{"sum mismatch", models.RouletteParams{Bets: []models.RouletteBet{
			{Type: models.RouletteBetRed, Amount: 4}}}, 10},
		{"unknown type", models.RouletteParams{Bets: []models.RouletteBet{
			{Type: "corner", Amount: 10}}}, 10},
	}

	for _, tc := range cases {
		if err := games.ValidateRoulette(&tc.params, tc.amount); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}

	ok := models.RouletteParams{Bets: []models.RouletteBet{
		{Type: models.RouletteBetRed, Amount: 6},
		{Type: models.RouletteBetStraight, Pick: 0, Amount: 4},
	}}
	if err := games.ValidateRoulette(&ok, 10); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}
