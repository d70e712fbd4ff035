package payoff

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// TestValidateBudgetCovered checks the surplus when the budget exceeds the
// combined minimums.
func TestValidateBudgetCovered(t *testing.T) {
	debts := []Debt{
		testDebt("a", 1000, 0.10, 50),
		testDebt("b", 2000, 0.20, 75),
	}

	check := ValidateBudget(decimal.NewFromInt(200), debts)
	if !check.Valid {
		t.Fatalf("expected valid budget, got message %q", check.Message)
	}
	if check.InitialSnowball.StringFixed(2) != "75.00" {
		t.Fatalf("expected initial snowball 75.00, got %s", check.InitialSnowball)
	}
}

// TestValidateBudgetShortfall checks the reported shortfall amount for an
// under-funded budget.
func TestValidateBudgetShortfall(t *testing.T) {
	debts := []Debt{
		testDebt("a", 1000, 0.10, 60),
		testDebt("b", 2000, 0.20, 65),
	}

	check := ValidateBudget(decimal.NewFromInt(100), debts)
	if check.Valid {
		t.Fatal("expected invalid budget")
	}
	if check.InitialSnowball.StringFixed(2) != "-25.00" {
		t.Fatalf("expected initial snowball -25.00, got %s", check.InitialSnowball)
	}
	if !strings.Contains(check.Message, "25.00") {
		t.Fatalf("expected shortfall in message, got %q", check.Message)
	}
}

// TestValidateBudgetIgnoresInactive checks that inactive and zero-balance
// debts do not count toward the minimums.
func TestValidateBudgetIgnoresInactive(t *testing.T) {
	inactive := testDebt("inactive", 1000, 0.10, 500)
	inactive.Active = false
	paid := testDebt("paid", 0, 0.10, 500)

	debts := []Debt{inactive, paid, testDebt("live", 1000, 0.10, 40)}

	check := ValidateBudget(decimal.NewFromInt(100), debts)
	if !check.Valid {
		t.Fatalf("expected valid budget, got message %q", check.Message)
	}
	if check.InitialSnowball.StringFixed(2) != "60.00" {
		t.Fatalf("expected initial snowball 60.00, got %s", check.InitialSnowball)
	}
}

// TestIsInterestOnlyRisk checks the minimum-vs-monthly-interest comparison:
// a 10000 balance at 24% APR accrues 200 a month, so a 150 minimum grows.
func TestIsInterestOnlyRisk(t *testing.T) {
	atRisk := testDebt("risky", 10000, 0.24, 150)
	if !IsInterestOnlyRisk(atRisk) {
		t.Fatal("expected interest-only risk")
	}

	covered := testDebt("covered", 10000, 0.24, 200)
	if IsInterestOnlyRisk(covered) {
		t.Fatal("expected no risk when the minimum equals the interest")
	}
}
