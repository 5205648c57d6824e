package models_test

import (
	"testing"

	"casino-engine-backend/internal/models"
)

func TestRoundMultiplier(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.92, 1.92},
		{1.090909, 1.0909},
		{1.91999, 1.92},
		{0, 0},
	}

	for _, tc := range cases {
		if got := models.RoundMultiplier(tc.in); got != tc.want {
			t.Errorf("RoundMultiplier(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRoundAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.906, 10.91},
		{10.904, 10.9},
		{10.909090, 10.91},
		{100, 100},
	}

	for _, tc := range cases {
		if got := models.RoundAmount(tc.in); got != tc.want {
			t.Errorf("RoundAmount(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMultiStepGames(t *testing.T) {
	multi := []models.GameType{models.GameTypeMines, models.GameTypeBlackjack}
	for _, g := range multi {
		if !g.MultiStep() {
			t.Errorf("%s should be multi-step", g)
		}
	}

	single := []models.GameType{
		models.GameTypeDice,
		models.GameTypeCoinflip,
		models.GameTypePlinko,
		models.GameTypeRoulette,
	}
	for _, g := range single {
		if g.MultiStep() {
			t.Errorf("%s should settle in one request", g)
		}
	}
}

func TestGenerateClientSeed(t *testing.T) {
	a, err := models.GenerateClientSeed()
	if err != nil {
		t.Fatalf("Failed to generate seed: %v", err)
	}
	b, err := models.GenerateClientSeed()
	if err != nil {
		t.Fatalf("Failed to generate seed: %v", err)
	}

	if len(a) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("Consecutive seeds should differ")
	}
}
