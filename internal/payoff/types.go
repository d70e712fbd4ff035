package payoff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxMonths is the safety horizon of a simulation. A plan whose minimum
// payments never cover interest would otherwise loop forever.
const MaxMonths = 480

type Strategy string

const (
	StrategyLowestBalance Strategy = "lowest_balance"
	StrategyHighestAPR    Strategy = "highest_apr"
	StrategyOrderEntered  Strategy = "order_entered"
	StrategyNoSnowball    Strategy = "no_snowball"
	StrategyCustomHighest Strategy = "custom_highest"
	StrategyCustomLowest  Strategy = "custom_lowest"
)

// Valid reports whether the strategy is one of the known ordering policies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyLowestBalance, StrategyHighestAPR, StrategyOrderEntered,
		StrategyNoSnowball, StrategyCustomHighest, StrategyCustomLowest:
		return true
	}
	return false
}

// Debt is the simulation input for a single owed balance. APR is a decimal
// fraction (0.195 = 19.5%); the monthly periodic rate is APR/12. CustomRank
// is only consulted by the custom strategies; nil means lowest priority.
type Debt struct {
	ID         uuid.UUID
	Name       string
	Balance    decimal.Decimal
	APR        decimal.Decimal
	MinPayment decimal.Decimal
	CustomRank *int
	Active     bool
}

// BudgetCheck is the advisory result of ValidateBudget. InitialSnowball is
// the budget left over after all minimum payments; negative means the budget
// cannot cover the minimums.
type BudgetCheck struct {
	Valid           bool
	Message         string
	InitialSnowball decimal.Decimal
}

// MonthlyDebtDetail is one debt's slice of a simulated month. StartingBalance
// is taken before interest accrual; EndingBalance is floored at zero.
type MonthlyDebtDetail struct {
	DebtID          uuid.UUID       `json:"debt_id"`
	Name            string          `json:"name"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Interest        decimal.Decimal `json:"interest"`
	Payment         decimal.Decimal `json:"payment"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
}

// MonthlyScheduleRow summarizes one simulated month across all debts.
type MonthlyScheduleRow struct {
	Month            int                 `json:"month"`
	Date             time.Time           `json:"date"`
	TotalPayment     decimal.Decimal     `json:"total_payment"`
	TotalBaseline    decimal.Decimal     `json:"total_baseline"`
	TotalSnowball    decimal.Decimal     `json:"total_snowball"`
	Debts            []MonthlyDebtDetail `json:"debts"`
	RemainingBalance decimal.Decimal     `json:"remaining_balance"`
}

// CalculationResult is the complete output of Simulate. MonthsToPayoff equals
// len(Rows); hitting MaxMonths with a nonzero final RemainingBalance means the
// plan did not converge, which callers detect by inspection rather than an
// explicit flag.
type CalculationResult struct {
	Rows              []MonthlyScheduleRow
	TotalInterestPaid decimal.Decimal
	MonthsToPayoff    int
	PayoffDate        time.Time
	DebtPayoffDates   map[uuid.UUID]time.Time
	PayoffOrder       []uuid.UUID
}
