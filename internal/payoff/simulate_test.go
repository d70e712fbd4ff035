package payoff

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testStart = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

// TestSimulateSingleDebtOneMonth checks immediate payoff when the minimum
// covers balance plus one month of interest.
func TestSimulateSingleDebtOneMonth(t *testing.T) {
	debts := []Debt{testDebt("card", 1200, 0.12, 1300)}

	result := Simulate(debts, StrategyLowestBalance, decimal.NewFromInt(1300), testStart)

	if result.MonthsToPayoff != 1 {
		t.Fatalf("expected payoff in 1 month, got %d", result.MonthsToPayoff)
	}
	if result.TotalInterestPaid.StringFixed(2) != "12.00" {
		t.Fatalf("expected 12.00 interest, got %s", result.TotalInterestPaid)
	}
	if !result.PayoffDate.Equal(testStart.AddDate(0, 1, 0)) {
		t.Fatalf("unexpected payoff date %s", result.PayoffDate)
	}
	if date, ok := result.DebtPayoffDates[debts[0].ID]; !ok || !date.Equal(result.PayoffDate) {
		t.Fatalf("expected per-debt payoff date %s, got %v", result.PayoffDate, date)
	}
}

// TestSimulateSingleDebtTwoMonths checks the residual-interest month when the
// minimum only covers the original balance.
func TestSimulateSingleDebtTwoMonths(t *testing.T) {
	debts := []Debt{testDebt("card", 1200, 0.12, 1200)}

	result := Simulate(debts, StrategyLowestBalance, decimal.NewFromInt(1200), testStart)

	if result.MonthsToPayoff != 2 {
		t.Fatalf("expected payoff in 2 months, got %d", result.MonthsToPayoff)
	}
	if result.TotalInterestPaid.StringFixed(2) != "12.12" {
		t.Fatalf("expected 12.12 interest, got %s", result.TotalInterestPaid)
	}

	first := result.Rows[0]
	if first.TotalPayment.StringFixed(2) != "1200.00" {
		t.Fatalf("expected first payment 1200.00, got %s", first.TotalPayment)
	}
	if first.RemainingBalance.StringFixed(2) != "12.00" {
		t.Fatalf("expected 12.00 remaining after month 1, got %s", first.RemainingBalance)
	}
}

// TestSimulateSnowballWaterfall walks the two-debt snowball example: the
// surplus follows the smallest balance, then rolls to the next debt the month
// the first one retires.
func TestSimulateSnowballWaterfall(t *testing.T) {
	debts := []Debt{
		testDebt("a", 100, 0, 50),
		testDebt("b", 500, 0, 25),
	}

	result := Simulate(debts, StrategyLowestBalance, decimal.NewFromInt(100), testStart)

	wantOrder := []string{"a", "b"}
	for i, id := range result.PayoffOrder {
		if id != debts[i].ID {
			t.Fatalf("expected payoff order %v", wantOrder)
		}
	}

	month1 := result.Rows[0]
	if month1.Debts[0].Payment.StringFixed(2) != "75.00" {
		t.Fatalf("expected a to receive 75.00 in month 1, got %s", month1.Debts[0].Payment)
	}
	if month1.Debts[0].EndingBalance.StringFixed(2) != "25.00" {
		t.Fatalf("expected a to end month 1 at 25.00, got %s", month1.Debts[0].EndingBalance)
	}
	if month1.Debts[1].EndingBalance.StringFixed(2) != "475.00" {
		t.Fatalf("expected b to end month 1 at 475.00, got %s", month1.Debts[1].EndingBalance)
	}

	month2 := result.Rows[1]
	if month2.Debts[0].Payment.StringFixed(2) != "25.00" {
		t.Fatalf("expected a to pay 25.00 in month 2, got %s", month2.Debts[0].Payment)
	}
	if !month2.Debts[0].EndingBalance.IsZero() {
		t.Fatalf("expected a retired in month 2, got %s", month2.Debts[0].EndingBalance)
	}
	// a has no headroom in month 2, so the full 50 surplus lands on b.
	if month2.Debts[1].Payment.StringFixed(2) != "75.00" {
		t.Fatalf("expected b to receive 75.00 in month 2, got %s", month2.Debts[1].Payment)
	}

	if date, ok := result.DebtPayoffDates[debts[0].ID]; !ok || !date.Equal(testStart.AddDate(0, 2, 0)) {
		t.Fatalf("expected a paid off at month 2, got %v", date)
	}
}

// TestSimulateUnderFundedBudget checks that an insufficient budget still
// produces a complete 480-month schedule with growing balances.
func TestSimulateUnderFundedBudget(t *testing.T) {
	debts := []Debt{
		testDebt("a", 10000, 0.30, 200),
		testDebt("b", 10000, 0.30, 200),
	}

	check := ValidateBudget(decimal.NewFromInt(300), debts)
	if check.Valid {
		t.Fatal("expected invalid budget")
	}

	result := Simulate(debts, StrategyHighestAPR, decimal.NewFromInt(300), testStart)
	if result.MonthsToPayoff != MaxMonths {
		t.Fatalf("expected the %d-month cap, got %d", MaxMonths, result.MonthsToPayoff)
	}

	final := result.Rows[len(result.Rows)-1]
	if !final.RemainingBalance.IsPositive() {
		t.Fatal("expected nonzero balances at the horizon")
	}
	// 2.5% monthly interest against a 200 minimum grows every month.
	if !final.RemainingBalance.GreaterThan(decimal.NewFromInt(20000)) {
		t.Fatalf("expected balances above the initial 20000, got %s", final.RemainingBalance)
	}
}

// TestSimulateNoSnowball checks that no surplus is ever allocated under the
// no-redistribution strategy, so each debt amortizes on its own minimum.
func TestSimulateNoSnowball(t *testing.T) {
	debts := []Debt{
		testDebt("a", 100, 0, 50),
		testDebt("b", 300, 0, 50),
	}

	result := Simulate(debts, StrategyNoSnowball, decimal.NewFromInt(200), testStart)

	for _, row := range result.Rows {
		if !row.TotalSnowball.IsZero() {
			t.Fatalf("expected no surplus in month %d, got %s", row.Month, row.TotalSnowball)
		}
	}

	if result.MonthsToPayoff != 6 {
		t.Fatalf("expected payoff in 6 months, got %d", result.MonthsToPayoff)
	}
	if date := result.DebtPayoffDates[debts[0].ID]; !date.Equal(testStart.AddDate(0, 2, 0)) {
		t.Fatalf("expected a paid off at month 2, got %s", date)
	}
	if date := result.DebtPayoffDates[debts[1].ID]; !date.Equal(testStart.AddDate(0, 6, 0)) {
		t.Fatalf("expected b paid off at month 6, got %s", date)
	}
}

// TestSimulateDeterminism checks that repeated runs over the same input are
// identical.
func TestSimulateDeterminism(t *testing.T) {
	debts := []Debt{
		testDebt("a", 4300.50, 0.199, 86),
		testDebt("b", 12750.25, 0.065, 210),
		testDebt("c", 950, 0.289, 35),
	}
	budget := decimal.NewFromInt(600)

	first := Simulate(debts, StrategyHighestAPR, budget, testStart)
	second := Simulate(debts, StrategyHighestAPR, budget, testStart)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical results for identical input")
	}
}

// TestSimulateBalanceConservation checks that every row's remaining balance
// equals the sum of its per-debt ending balances and that no monetary field
// carries more than two decimals.
func TestSimulateBalanceConservation(t *testing.T) {
	debts := []Debt{
		testDebt("a", 4300.50, 0.199, 86),
		testDebt("b", 12750.25, 0.065, 210),
		testDebt("c", 950, 0.289, 35),
	}

	result := Simulate(debts, StrategyLowestBalance, decimal.NewFromInt(600), testStart)

	for _, row := range result.Rows {
		sum := decimal.Zero
		for _, detail := range row.Debts {
			sum = sum.Add(detail.EndingBalance)
			assertTwoDecimals(t, detail.Interest, detail.Payment, detail.EndingBalance)
		}
		if !row.RemainingBalance.Equal(sum) {
			t.Fatalf("month %d: remaining %s != sum of endings %s", row.Month, row.RemainingBalance, sum)
		}
		assertTwoDecimals(t, row.TotalPayment, row.TotalBaseline, row.TotalSnowball, row.RemainingBalance)

		// Minimums cover interest here, so balances never increase.
		for _, detail := range row.Debts {
			if detail.EndingBalance.GreaterThan(detail.StartingBalance) {
				t.Fatalf("month %d: %s balance grew", row.Month, detail.Name)
			}
		}
	}

	if result.MonthsToPayoff >= MaxMonths {
		t.Fatalf("expected convergence, got %d months", result.MonthsToPayoff)
	}
}

// TestSimulateNoActiveDebts checks the empty-input result shape.
func TestSimulateNoActiveDebts(t *testing.T) {
	result := Simulate(nil, StrategyLowestBalance, decimal.NewFromInt(500), testStart)

	if result.MonthsToPayoff != 0 {
		t.Fatalf("expected 0 months, got %d", result.MonthsToPayoff)
	}
	if len(result.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(result.Rows))
	}
	if !result.PayoffDate.Equal(testStart) {
		t.Fatalf("expected start date as payoff date, got %s", result.PayoffDate)
	}
}

// TestSimulateDoesNotMutateInput checks that the caller's debts keep their
// balances after a simulation.
func TestSimulateDoesNotMutateInput(t *testing.T) {
	debts := []Debt{testDebt("a", 100, 0, 50)}

	Simulate(debts, StrategyLowestBalance, decimal.NewFromInt(100), testStart)

	if debts[0].Balance.StringFixed(2) != "100.00" {
		t.Fatalf("input debt was mutated: %s", debts[0].Balance)
	}
}

func assertTwoDecimals(t *testing.T, values ...decimal.Decimal) {
	t.Helper()
	for _, v := range values {
		if v.Exponent() < -2 {
			t.Fatalf("value %s has more than two decimals", v)
		}
	}
}
