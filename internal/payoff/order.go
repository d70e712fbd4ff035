package payoff

import "sort"

// OrderDebts derives the payoff priority order for a strategy. Only debts
// that are active with a positive balance participate. The sort is stable:
// debts equal under the strategy's key keep their input order, and
// order_entered/no_snowball keep the input order untouched.
func OrderDebts(debts []Debt, strategy Strategy) []Debt {
	ordered := make([]Debt, 0, len(debts))
	for _, d := range debts {
		if d.Active && d.Balance.IsPositive() {
			ordered = append(ordered, d)
		}
	}

	switch strategy {
	case StrategyLowestBalance:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Balance.LessThan(ordered[j].Balance)
		})
	case StrategyHighestAPR:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].APR.GreaterThan(ordered[j].APR)
		})
	case StrategyCustomHighest:
		sort.SliceStable(ordered, func(i, j int) bool {
			return rankLess(ordered[i].CustomRank, ordered[j].CustomRank, true)
		})
	case StrategyCustomLowest:
		sort.SliceStable(ordered, func(i, j int) bool {
			return rankLess(ordered[i].CustomRank, ordered[j].CustomRank, false)
		})
	}
	// order_entered and no_snowball preserve the entered order.

	return ordered
}

// rankLess compares optional custom ranks. A debt without a rank sorts after
// every ranked debt under both custom strategies.
func rankLess(a, b *int, highestFirst bool) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if highestFirst {
		return *a > *b
	}
	return *a < *b
}
