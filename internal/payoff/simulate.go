package payoff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// workingDebt is the simulation's mutable copy of one debt. Input debts are
// never modified.
type workingDebt struct {
	id         uuid.UUID
	name       string
	apr        decimal.Decimal
	minPayment decimal.Decimal
	balance    decimal.Decimal
}

// Simulate computes a month-by-month payoff schedule for the given debts
// under a fixed monthly budget. It is a pure function: identical input yields
// identical output, and nothing is shared between invocations.
//
// The payoff order is computed once up front from the full debt list and then
// filtered to the still-active debts each month; priorities are not re-ranked
// mid-simulation. Every monetary quantity is rounded to cents immediately
// after it is computed, so a row's remaining balance always equals the sum of
// its per-debt ending balances. The loop stops when every balance reaches
// zero or after MaxMonths, whichever comes first; the MaxMonths case is
// reported as an ordinary (incomplete) schedule, not an error.
func Simulate(debts []Debt, strategy Strategy, monthlyBudget decimal.Decimal, startDate time.Time) CalculationResult {
	ordered := OrderDebts(debts, strategy)

	result := CalculationResult{
		Rows:            make([]MonthlyScheduleRow, 0),
		DebtPayoffDates: make(map[uuid.UUID]time.Time, len(ordered)),
		PayoffOrder:     make([]uuid.UUID, 0, len(ordered)),
		PayoffDate:      startDate,
	}

	working := make([]*workingDebt, 0, len(ordered))
	for _, d := range ordered {
		result.PayoffOrder = append(result.PayoffOrder, d.ID)
		working = append(working, &workingDebt{
			id:         d.ID,
			name:       d.Name,
			apr:        d.APR,
			minPayment: d.MinPayment,
			balance:    d.Balance,
		})
	}

	for month := 1; month <= MaxMonths; month++ {
		active := make([]*workingDebt, 0, len(working))
		for _, w := range working {
			if w.balance.IsPositive() {
				active = append(active, w)
			}
		}
		if len(active) == 0 {
			break
		}

		currentDate := startDate.AddDate(0, month, 0)

		starting := make([]decimal.Decimal, len(active))
		interest := make([]decimal.Decimal, len(active))
		baseline := make([]decimal.Decimal, len(active))
		extra := make([]decimal.Decimal, len(active))

		totalBaseline := decimal.Zero
		for i, w := range active {
			starting[i] = w.balance
			interest[i] = monthlyInterest(w.balance, w.apr)
			w.balance = w.balance.Add(interest[i])
			result.TotalInterestPaid = result.TotalInterestPaid.Add(interest[i])

			// Cap the minimum at what is still owed so the final month of a
			// debt never overpays.
			baseline[i] = decimal.Min(w.minPayment, w.balance)
			totalBaseline = totalBaseline.Add(baseline[i])
		}

		extraPool := decimal.Zero
		if strategy != StrategyNoSnowball {
			extraPool = monthlyBudget.Sub(totalBaseline).Round(2)
		}

		// Waterfall: the highest-priority debt absorbs surplus up to its
		// headroom, then the remainder moves down the fixed payoff order.
		// A negative pool (under-funded budget) allocates nothing.
		if extraPool.IsPositive() {
			for i, w := range active {
				headroom := w.balance.Sub(baseline[i]).Round(2)
				if !headroom.IsPositive() {
					continue
				}
				extra[i] = decimal.Min(extraPool, headroom)
				extraPool = extraPool.Sub(extra[i])
				if !extraPool.IsPositive() {
					break
				}
			}
		}

		row := MonthlyScheduleRow{
			Month: month,
			Date:  currentDate,
			Debts: make([]MonthlyDebtDetail, 0, len(active)),
		}
		totalPayment := decimal.Zero
		totalSnowball := decimal.Zero
		totalRemaining := decimal.Zero

		for i, w := range active {
			payment := baseline[i].Add(extra[i]).Round(2)
			ending := w.balance.Sub(payment).Round(2)
			if ending.IsNegative() {
				ending = decimal.Zero
			}
			w.balance = ending

			if ending.IsZero() {
				if _, seen := result.DebtPayoffDates[w.id]; !seen {
					result.DebtPayoffDates[w.id] = currentDate
				}
			}

			row.Debts = append(row.Debts, MonthlyDebtDetail{
				DebtID:          w.id,
				Name:            w.name,
				StartingBalance: starting[i],
				Interest:        interest[i],
				Payment:         payment,
				EndingBalance:   ending,
			})
			totalPayment = totalPayment.Add(payment)
			totalSnowball = totalSnowball.Add(extra[i])
			totalRemaining = totalRemaining.Add(ending)
		}

		row.TotalPayment = totalPayment.Round(2)
		row.TotalBaseline = totalBaseline.Round(2)
		row.TotalSnowball = totalSnowball.Round(2)
		row.RemainingBalance = totalRemaining.Round(2)
		result.Rows = append(result.Rows, row)
	}

	result.MonthsToPayoff = len(result.Rows)
	if len(result.Rows) > 0 {
		result.PayoffDate = result.Rows[len(result.Rows)-1].Date
	}

	return result
}
