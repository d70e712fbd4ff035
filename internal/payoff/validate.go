package payoff

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// monthlyInterest returns one month of simple interest on a balance, rounded
// to cents before any further arithmetic.
func monthlyInterest(balance, apr decimal.Decimal) decimal.Decimal {
	return balance.Mul(apr).Div(twelve).Round(2)
}

// ValidateBudget checks whether a monthly budget covers the combined minimum
// payments of the active debts. The check is advisory: Simulate still runs on
// an under-funded budget, it just never allocates surplus.
func ValidateBudget(monthlyBudget decimal.Decimal, debts []Debt) BudgetCheck {
	totalMinimums := decimal.Zero
	for _, d := range debts {
		if d.Active && d.Balance.IsPositive() {
			totalMinimums = totalMinimums.Add(d.MinPayment)
		}
	}

	snowball := monthlyBudget.Sub(totalMinimums).Round(2)
	check := BudgetCheck{
		Valid:           !snowball.IsNegative(),
		InitialSnowball: snowball,
	}
	if !check.Valid {
		check.Message = fmt.Sprintf(
			"monthly budget falls %s short of the combined minimum payments",
			snowball.Abs().StringFixed(2),
		)
	}

	return check
}

// IsInterestOnlyRisk reports whether a debt's minimum payment fails to cover
// its own monthly interest, meaning the balance grows under minimum-only
// payments.
func IsInterestOnlyRisk(d Debt) bool {
	return d.MinPayment.LessThan(monthlyInterest(d.Balance, d.APR))
}
