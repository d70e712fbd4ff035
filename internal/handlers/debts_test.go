package handlers

import (
	"testing"

	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/models"
)

// TestValidateDebtAmounts checks the numeric guards on debt input.
func TestValidateDebtAmounts(t *testing.T) {
	ok := validateDebtAmounts(decimal.NewFromInt(5000), decimal.NewFromFloat(0.249), decimal.NewFromInt(150))
	if ok != "" {
		t.Fatalf("expected valid amounts, got %q", ok)
	}

	if validateDebtAmounts(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero) == "" {
		t.Fatal("expected error for negative balance")
	}
	if validateDebtAmounts(decimal.Zero, decimal.NewFromFloat(1.5), decimal.Zero) == "" {
		t.Fatal("expected error for apr above 1")
	}
	if validateDebtAmounts(decimal.Zero, decimal.NewFromFloat(-0.1), decimal.Zero) == "" {
		t.Fatal("expected error for negative apr")
	}
	if validateDebtAmounts(decimal.Zero, decimal.Zero, decimal.NewFromInt(-5)) == "" {
		t.Fatal("expected error for negative min payment")
	}
}

// TestToDebtResponseRiskFlag checks the interest-only risk flag on the DTO.
func TestToDebtResponseRiskFlag(t *testing.T) {
	atRisk := models.Debt{
		Name:       "Store Card",
		Type:       models.DebtTypeCreditCard,
		Balance:    decimal.NewFromInt(10000),
		APR:        decimal.NewFromFloat(0.30),
		MinPayment: decimal.NewFromInt(200),
		Active:     true,
	}
	if !toDebtResponse(atRisk).InterestOnlyRisk {
		t.Fatal("expected risk flag when minimum does not cover interest")
	}

	healthy := atRisk
	healthy.MinPayment = decimal.NewFromInt(300)
	if toDebtResponse(healthy).InterestOnlyRisk {
		t.Fatal("expected no risk flag when minimum covers interest")
	}
}
