package services_test

import (
	"testing"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

func TestReplayBalancesFoldsEntries(t *testing.T) {
	txns := []models.Transaction{
		{Type: models.TransactionTypeBonus, Amount: 100},
		{Type: models.TransactionTypeWager, Amount: -10},
		{Type: models.TransactionTypeLock, Amount: 10},
		{Type: models.TransactionTypeUnlock, Amount: -10},
		{Type: models.TransactionTypePayout, Amount: 10.91},
	}

	available, locked := services.ReplayBalances(txns)
	if available != 100.91 {
		t.Errorf("Expected available 100.91, got %f", available)
	}
	if locked != 0 {
		t.Errorf("Expected locked 0, got %f", locked)
	}
}

func TestReplayBalancesLockedFunds(t *testing.T) {
	txns := []models.Transaction{
		{Type: models.TransactionTypeDeposit, Amount: 50},
		{Type: models.TransactionTypeWager, Amount: -20},
		{Type: models.TransactionTypeLock, Amount: 20},
	}

	available, locked := services.ReplayBalances(txns)
	if available != 30 {
		t.Errorf("Expected available 30, got %f", available)
	}
	if locked != 20 {
		t.Errorf("Expected locked 20, got %f", locked)
	}
}

func TestAffectsLockedSplitsByType(t *testing.T) {
	locked := []models.TransactionType{
		models.TransactionTypeLock,
		models.TransactionTypeUnlock,
	}
	for _, typ := range locked {
		if !typ.AffectsLocked() {
			t.Errorf("%s should affect the locked balance", typ)
		}
	}

	available := []models.TransactionType{
		models.TransactionTypeWager,
		models.TransactionTypePayout,
		models.TransactionTypeBonus,
		models.TransactionTypeDeposit,
		models.TransactionTypeWithdraw,
	}
	for _, typ := range available {
		if typ.AffectsLocked() {
			t.Errorf("%s should affect the available balance", typ)
		}
	}
}
