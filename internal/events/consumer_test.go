package events

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

func TestCreditTypeMapping(t *testing.T) {
	cases := []struct {
		in   string
		want models.TransactionType
	}{
		{"deposit", models.TransactionTypeDeposit},
		{"Deposit", models.TransactionTypeDeposit},
		{"withdraw", models.TransactionTypeWithdraw},
		{"bonus", models.TransactionTypeBonus},
	}

	for _, tc := range cases {
		got, err := creditType(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("creditType(%q) = (%v, %v), want %v", tc.in, got, err, tc.want)
		}
	}

	if _, err := creditType("wager"); err == nil {
		t.Error("internal transaction types must not arrive over the wire")
	}
}

func TestRequeueableSplitsPermanentFailures(t *testing.T) {
	permanent := []error{
		gorm.ErrRecordNotFound,
		fmt.Errorf("credit user 7: %w", gorm.ErrRecordNotFound),
		services.ErrInsufficientFunds,
		fmt.Errorf("withdraw: %w", services.ErrInsufficientFunds),
	}
	for _, err := range permanent {
		if requeueable(err) {
			t.Errorf("%v must not requeue", err)
		}
	}

	transient := []error{
		errors.New("connection refused"),
		fmt.Errorf("tx begin: %w", errors.New("timeout")),
	}
	for _, err := range transient {
		if !requeueable(err) {
			t.Errorf("%v should requeue", err)
		}
	}
}
