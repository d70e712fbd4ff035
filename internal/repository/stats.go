package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/models"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type OverviewStats struct {
	TotalDebts       int
	ActiveDebts      int
	ArchivedDebts    int
	TotalBalance     decimal.Decimal
	TotalMinPayments decimal.Decimal
	Scenarios        int
}

type TypeBreakdown struct {
	Type       models.DebtType
	Count      int
	Balance    decimal.Decimal
	MinPayment decimal.Decimal
}

// NewStatsRepository creates the statistics repository.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns aggregate figures over the user's debts and scenarios.
// Balance and minimum sums only count active debts still carrying a balance.
func (r *StatsRepository) Overview(ctx context.Context, userID uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) AS total_debts,
		        COUNT(*) FILTER (WHERE active AND balance > 0) AS active_debts,
		        COUNT(*) FILTER (WHERE NOT active OR balance <= 0) AS archived_debts,
		        COALESCE(SUM(balance) FILTER (WHERE active AND balance > 0), 0) AS total_balance,
		        COALESCE(SUM(min_payment) FILTER (WHERE active AND balance > 0), 0) AS total_min_payments
		 FROM debts
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalDebts, &stats.ActiveDebts, &stats.ArchivedDebts, &stats.TotalBalance, &stats.TotalMinPayments)
	if err != nil {
		return stats, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM scenarios WHERE user_id = $1`,
		userID,
	).Scan(&stats.Scenarios)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// BreakdownByType groups the user's active debts by debt type.
func (r *StatsRepository) BreakdownByType(ctx context.Context, userID uuid.UUID) ([]TypeBreakdown, error) {
	rows, err := r.db.Query(ctx,
		`SELECT debt_type,
		        COUNT(*) AS debt_count,
		        COALESCE(SUM(balance), 0) AS total_balance,
		        COALESCE(SUM(min_payment), 0) AS total_min_payment
		 FROM debts
		 WHERE user_id = $1 AND active AND balance > 0
		 GROUP BY debt_type
		 ORDER BY total_balance DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make([]TypeBreakdown, 0)
	for rows.Next() {
		var row TypeBreakdown
		if err := rows.Scan(&row.Type, &row.Count, &row.Balance, &row.MinPayment); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return breakdown, nil
}
