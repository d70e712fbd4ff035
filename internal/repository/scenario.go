package repository

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/models"
	"example.com/debt-payoff-planner/internal/payoff"
)

type ScenarioRepository struct {
	db *pgxpool.Pool
}

// ScenarioInput carries the writable fields of a saved simulation scenario.
type ScenarioInput struct {
	Title         string
	Strategy      payoff.Strategy
	MonthlyBudget decimal.Decimal
	StartDate     time.Time
}

const scenarioColumns = `id, user_id, title, strategy, monthly_budget, start_date, created_at, updated_at`

// NewScenarioRepository creates the scenario repository.
func NewScenarioRepository(db *pgxpool.Pool) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create stores a scenario.
func (r *ScenarioRepository) Create(ctx context.Context, userID uuid.UUID, input ScenarioInput) (models.Scenario, error) {
	var scenario models.Scenario

	err := r.db.QueryRow(ctx,
		`INSERT INTO scenarios (user_id, title, strategy, monthly_budget, start_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+scenarioColumns,
		userID, input.Title, input.Strategy, input.MonthlyBudget, input.StartDate,
	).Scan(scenarioFields(&scenario)...)
	if err != nil {
		return scenario, err
	}

	return scenario, nil
}

// ListByUser returns the user's scenarios, newest first.
func (r *ScenarioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Scenario, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+scenarioColumns+`
		 FROM scenarios
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenarios := make([]models.Scenario, 0)
	for rows.Next() {
		var scenario models.Scenario
		if err := rows.Scan(scenarioFields(&scenario)...); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scenarios, nil
}

// GetByID returns one of the user's scenarios.
func (r *ScenarioRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Scenario, error) {
	var scenario models.Scenario

	err := r.db.QueryRow(ctx,
		`SELECT `+scenarioColumns+`
		 FROM scenarios
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(scenarioFields(&scenario)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scenario, ErrNotFound
		}
		return scenario, err
	}

	return scenario, nil
}

// Update replaces the writable fields of a scenario.
func (r *ScenarioRepository) Update(ctx context.Context, userID, id uuid.UUID, input ScenarioInput) (models.Scenario, error) {
	var scenario models.Scenario

	err := r.db.QueryRow(ctx,
		`UPDATE scenarios
		 SET title = $3, strategy = $4, monthly_budget = $5, start_date = $6, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+scenarioColumns,
		id, userID, input.Title, input.Strategy, input.MonthlyBudget, input.StartDate,
	).Scan(scenarioFields(&scenario)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scenario, ErrNotFound
		}
		return scenario, err
	}

	return scenario, nil
}

// Delete removes a scenario.
func (r *ScenarioRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM scenarios WHERE id = $1 AND user_id = $2`,
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

// Duplicate copies a scenario under a "Copy of" title.
func (r *ScenarioRepository) Duplicate(ctx context.Context, userID, id uuid.UUID, maxTitleLen int) (models.Scenario, error) {
	original, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return models.Scenario{}, err
	}

	return r.Create(ctx, userID, ScenarioInput{
		Title:         buildCopyTitle(original.Title, maxTitleLen),
		Strategy:      original.Strategy,
		MonthlyBudget: original.MonthlyBudget,
		StartDate:     original.StartDate,
	})
}

func buildCopyTitle(title string, maxLen int) string {
	copied := "Copy of " + title
	if utf8.RuneCountInString(copied) <= maxLen {
		return copied
	}

	runes := []rune(copied)
	return string(runes[:maxLen])
}

func scenarioFields(scenario *models.Scenario) []interface{} {
	return []interface{}{
		&scenario.ID, &scenario.UserID, &scenario.Title, &scenario.Strategy,
		&scenario.MonthlyBudget, &scenario.StartDate, &scenario.CreatedAt, &scenario.UpdatedAt,
	}
}
