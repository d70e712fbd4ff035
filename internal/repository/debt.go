package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/models"
)

type DebtRepository struct {
	db *pgxpool.Pool
}

// DebtInput carries the writable fields of a debt.
type DebtInput struct {
	Name       string
	Type       models.DebtType
	Balance    decimal.Decimal
	APR        decimal.Decimal
	MinPayment decimal.Decimal
	CustomRank *int
	Active     bool
}

const debtColumns = `id, user_id, name, debt_type, balance, apr, min_payment, custom_rank, active, sort_order, created_at, updated_at`

// NewDebtRepository creates the debt repository.
func NewDebtRepository(db *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{db: db}
}

// Create inserts a debt at the end of the user's entry order.
func (r *DebtRepository) Create(ctx context.Context, userID uuid.UUID, input DebtInput) (models.Debt, error) {
	var debt models.Debt

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return debt, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	debt, err = insertDebt(ctx, tx, userID, input)
	if err != nil {
		return debt, err
	}

	if err := tx.Commit(ctx); err != nil {
		return debt, err
	}

	return debt, nil
}

// CreateBatch inserts several debts in one transaction, preserving input
// order. Used by the CSV import.
func (r *DebtRepository) CreateBatch(ctx context.Context, userID uuid.UUID, inputs []DebtInput) ([]models.Debt, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalid
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	debts := make([]models.Debt, 0, len(inputs))
	for _, input := range inputs {
		debt, err := insertDebt(ctx, tx, userID, input)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return debts, nil
}

func insertDebt(ctx context.Context, tx pgx.Tx, userID uuid.UUID, input DebtInput) (models.Debt, error) {
	var debt models.Debt

	err := tx.QueryRow(ctx,
		`INSERT INTO debts (user_id, name, debt_type, balance, apr, min_payment, custom_rank, active, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		         COALESCE((SELECT MAX(sort_order) + 1 FROM debts WHERE user_id = $1), 0))
		 RETURNING `+debtColumns,
		userID, input.Name, input.Type, input.Balance, input.APR, input.MinPayment, input.CustomRank, input.Active,
	).Scan(debtFields(&debt)...)
	if err != nil {
		return debt, err
	}

	return debt, nil
}

// ListByUser returns the user's debts in entry order. With activeOnly set,
// archived and paid-off debts are filtered out.
func (r *DebtRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Debt, error) {
	query := `SELECT ` + debtColumns + `
		 FROM debts
		 WHERE user_id = $1`
	if activeOnly {
		query += ` AND active AND balance > 0`
	}
	query += ` ORDER BY sort_order, created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := make([]models.Debt, 0)
	for rows.Next() {
		var debt models.Debt
		if err := rows.Scan(debtFields(&debt)...); err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return debts, nil
}

// GetByID returns one of the user's debts.
func (r *DebtRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Debt, error) {
	var debt models.Debt

	err := r.db.QueryRow(ctx,
		`SELECT `+debtColumns+`
		 FROM debts
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(debtFields(&debt)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt, ErrNotFound
		}
		return debt, err
	}

	return debt, nil
}

// Update replaces the writable fields of a debt.
func (r *DebtRepository) Update(ctx context.Context, userID, id uuid.UUID, input DebtInput) (models.Debt, error) {
	var debt models.Debt

	err := r.db.QueryRow(ctx,
		`UPDATE debts
		 SET name = $3, debt_type = $4, balance = $5, apr = $6, min_payment = $7,
		     custom_rank = $8, active = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+debtColumns,
		id, userID, input.Name, input.Type, input.Balance, input.APR, input.MinPayment, input.CustomRank, input.Active,
	).Scan(debtFields(&debt)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt, ErrNotFound
		}
		return debt, err
	}

	return debt, nil
}

// Archive deactivates a debt without deleting its record.
func (r *DebtRepository) Archive(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE debts
		 SET active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a debt permanently.
func (r *DebtRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM debts WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func debtFields(debt *models.Debt) []interface{} {
	return []interface{}{
		&debt.ID, &debt.UserID, &debt.Name, &debt.Type, &debt.Balance, &debt.APR,
		&debt.MinPayment, &debt.CustomRank, &debt.Active, &debt.SortOrder,
		&debt.CreatedAt, &debt.UpdatedAt,
	}
}
