package services_test

import (
	"errors"
	"testing"

	"casino-engine-backend/internal/services"
)

func TestMachineTransitions(t *testing.T) {
	m := services.NewMachine().
		Allow("active", "reveal_safe", "active").
		Allow("active", "reveal_mine", "busted").
		Allow("active", "cashout", "cashed_out").
		Terminal("busted").
		Terminal("cashed_out")

	next, err := m.Next("active", "reveal_safe")
	if err != nil || next != "active" {
		t.Errorf("expected active, got %q err %v", next, err)
	}

	next, err = m.Next("active", "reveal_mine")
	if err != nil || next != "busted" {
		t.Errorf("expected busted, got %q err %v", next, err)
	}
}

func TestMachineRejectsUnlistedPair(t *testing.T) {
	m := services.NewMachine().
		Allow("player_turn", "hit", "player_turn").
		Terminal("settled")

	if _, err := m.Next("player_turn", "cashout"); !errors.Is(err, services.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachineTerminalIsOneWay(t *testing.T) {
	m := services.NewMachine().
		Allow("active", "cashout", "cashed_out").
		Terminal("cashed_out")

	if !m.IsTerminal("cashed_out") {
		t.Error("cashed_out should be terminal")
	}

	// Any event against a terminal phase, listed or not, is rejected as a
	// settled round.
	if _, err := m.Next("cashed_out", "cashout"); !errors.Is(err, services.ErrRoundNotActive) {
		t.Errorf("expected ErrRoundNotActive, got %v", err)
	}
}
