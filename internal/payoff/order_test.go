package payoff

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testDebt(name string, balance, apr, minPayment float64) Debt {
	return Debt{
		ID:         uuid.New(),
		Name:       name,
		Balance:    decimal.NewFromFloat(balance),
		APR:        decimal.NewFromFloat(apr),
		MinPayment: decimal.NewFromFloat(minPayment),
		Active:     true,
	}
}

func intPtr(v int) *int {
	return &v
}

func names(debts []Debt) []string {
	out := make([]string, 0, len(debts))
	for _, d := range debts {
		out = append(out, d.Name)
	}
	return out
}

func assertOrder(t *testing.T, got []Debt, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d debts, got %v", len(want), names(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("expected order %v, got %v", want, names(got))
		}
	}
}

// TestOrderDebtsLowestBalance checks snowball ordering by ascending balance.
func TestOrderDebtsLowestBalance(t *testing.T) {
	debts := []Debt{
		testDebt("big", 5000, 0.10, 100),
		testDebt("small", 300, 0.25, 25),
		testDebt("mid", 1200, 0.18, 50),
	}

	assertOrder(t, OrderDebts(debts, StrategyLowestBalance), "small", "mid", "big")
}

// TestOrderDebtsHighestAPR checks avalanche ordering by descending APR.
func TestOrderDebtsHighestAPR(t *testing.T) {
	debts := []Debt{
		testDebt("low", 5000, 0.05, 100),
		testDebt("high", 300, 0.29, 25),
		testDebt("mid", 1200, 0.18, 50),
	}

	assertOrder(t, OrderDebts(debts, StrategyHighestAPR), "high", "mid", "low")
}

// TestOrderDebtsOrderEntered checks that entered order survives, filtered to
// active debts with positive balances.
func TestOrderDebtsOrderEntered(t *testing.T) {
	inactive := testDebt("inactive", 900, 0.10, 40)
	inactive.Active = false
	paidOff := testDebt("paid", 0, 0.10, 40)

	debts := []Debt{
		testDebt("first", 5000, 0.10, 100),
		inactive,
		testDebt("second", 300, 0.25, 25),
		paidOff,
		testDebt("third", 1200, 0.18, 50),
	}

	assertOrder(t, OrderDebts(debts, StrategyOrderEntered), "first", "second", "third")
	assertOrder(t, OrderDebts(debts, StrategyNoSnowball), "first", "second", "third")
}

// TestOrderDebtsStableTies checks that debts equal under the sort key keep
// their relative input order.
func TestOrderDebtsStableTies(t *testing.T) {
	debts := []Debt{
		testDebt("a", 1000, 0.20, 50),
		testDebt("b", 1000, 0.10, 50),
		testDebt("c", 1000, 0.30, 50),
	}

	assertOrder(t, OrderDebts(debts, StrategyLowestBalance), "a", "b", "c")
}

// TestOrderDebtsCustomRank checks both custom variants and the missing-rank
// fallback: an unranked debt sorts after every ranked one.
func TestOrderDebtsCustomRank(t *testing.T) {
	ranked1 := testDebt("rank1", 1000, 0.10, 50)
	ranked1.CustomRank = intPtr(1)
	ranked5 := testDebt("rank5", 2000, 0.20, 50)
	ranked5.CustomRank = intPtr(5)
	unranked := testDebt("unranked", 500, 0.30, 50)

	debts := []Debt{unranked, ranked1, ranked5}

	assertOrder(t, OrderDebts(debts, StrategyCustomHighest), "rank5", "rank1", "unranked")
	assertOrder(t, OrderDebts(debts, StrategyCustomLowest), "rank1", "rank5", "unranked")
}

// TestOrderDebtsEmpty checks that an empty input yields an empty result.
func TestOrderDebtsEmpty(t *testing.T) {
	if got := OrderDebts(nil, StrategyLowestBalance); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", names(got))
	}
}

// TestStrategyValid checks the strategy enum guard.
func TestStrategyValid(t *testing.T) {
	for _, s := range []Strategy{
		StrategyLowestBalance, StrategyHighestAPR, StrategyOrderEntered,
		StrategyNoSnowball, StrategyCustomHighest, StrategyCustomLowest,
	} {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}

	if Strategy("compare").Valid() {
		t.Fatal("expected unknown strategy to be invalid")
	}
}
