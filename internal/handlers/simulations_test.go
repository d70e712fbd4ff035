package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/payoff"
)

// TestResolveStrategy checks engine names and the snowball/avalanche aliases.
func TestResolveStrategy(t *testing.T) {
	cases := []struct {
		raw  string
		want payoff.Strategy
	}{
		{"lowest_balance", payoff.StrategyLowestBalance},
		{"highest_apr", payoff.StrategyHighestAPR},
		{"snowball", payoff.StrategyLowestBalance},
		{"avalanche", payoff.StrategyHighestAPR},
		{"no_snowball", payoff.StrategyNoSnowball},
	}

	for _, tc := range cases {
		got, ok := resolveStrategy(tc.raw)
		if !ok {
			t.Fatalf("resolveStrategy(%q) rejected", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("resolveStrategy(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	if _, ok := resolveStrategy("fastest"); ok {
		t.Fatal("expected unknown strategy to be rejected")
	}
}

// TestConvertInlineDebts checks validation and id assignment for inline debts.
func TestConvertInlineDebts(t *testing.T) {
	id := uuid.New()
	rank := 2

	debts, errMessage := convertInlineDebts([]SimulateDebt{
		{ID: &id, Name: "Visa", Balance: decimal.NewFromInt(5000), APR: decimal.NewFromFloat(0.249), MinPayment: decimal.NewFromInt(150), CustomRank: &rank},
		{Name: "Car Loan", Balance: decimal.NewFromInt(12000), APR: decimal.NewFromFloat(0.069), MinPayment: decimal.NewFromInt(320)},
	})
	if errMessage != "" {
		t.Fatalf("expected success, got %q", errMessage)
	}

	if debts[0].ID != id {
		t.Fatal("expected provided id to be kept")
	}
	if debts[1].ID == uuid.Nil {
		t.Fatal("expected missing id to be generated")
	}
	if !debts[0].Active || !debts[1].Active {
		t.Fatal("inline debts must be active")
	}

	_, errMessage = convertInlineDebts([]SimulateDebt{
		{Name: "Bad", Balance: decimal.NewFromInt(-1), APR: decimal.NewFromFloat(0.1), MinPayment: decimal.NewFromInt(10)},
	})
	if errMessage == "" {
		t.Fatal("expected error for negative balance")
	}
}

// TestSimulationCompleted checks the convergence flag derivation.
func TestSimulationCompleted(t *testing.T) {
	if !simulationCompleted(payoff.CalculationResult{}) {
		t.Fatal("empty schedule should count as completed")
	}

	paid := payoff.CalculationResult{Rows: []payoff.MonthlyScheduleRow{
		{Month: 1, RemainingBalance: decimal.Zero},
	}}
	if !simulationCompleted(paid) {
		t.Fatal("zero final balance should count as completed")
	}

	capped := payoff.CalculationResult{Rows: []payoff.MonthlyScheduleRow{
		{Month: payoff.MaxMonths, RemainingBalance: decimal.NewFromInt(900)},
	}}
	if simulationCompleted(capped) {
		t.Fatal("remaining balance should not count as completed")
	}
}

// TestToSimulationResponse checks DTO mapping of a small run.
func TestToSimulationResponse(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	debts := []payoff.Debt{{
		ID:         uuid.New(),
		Name:       "Visa",
		Balance:    decimal.NewFromInt(1000),
		APR:        decimal.Zero,
		MinPayment: decimal.NewFromInt(500),
		Active:     true,
	}}

	budget := decimal.NewFromInt(500)
	result := payoff.Simulate(debts, payoff.StrategyLowestBalance, budget, start)
	check := payoff.ValidateBudget(budget, debts)

	response := toSimulationResponse(payoff.StrategyLowestBalance, budget, start, result, check)

	if response.MonthsToPayoff != 2 {
		t.Fatalf("expected 2 months, got %d", response.MonthsToPayoff)
	}
	if !response.Completed {
		t.Fatal("expected completed run")
	}
	if response.StartDate != "2026-03-01" {
		t.Fatalf("unexpected start date: %s", response.StartDate)
	}
	if response.PayoffDate != "2026-05-01" {
		t.Fatalf("unexpected payoff date: %s", response.PayoffDate)
	}
	if len(response.Schedule) != 2 {
		t.Fatalf("expected 2 schedule rows, got %d", len(response.Schedule))
	}
	if response.Schedule[0].Date != "2026-04-01" {
		t.Fatalf("unexpected first row date: %s", response.Schedule[0].Date)
	}
	if got := response.DebtPayoffDates[debts[0].ID.String()]; got != "2026-05-01" {
		t.Fatalf("unexpected debt payoff date: %s", got)
	}
	if !response.Budget.Valid {
		t.Fatal("expected valid budget check")
	}
}
