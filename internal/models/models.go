package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/payoff"
)

type DebtType string

const (
	DebtTypeCreditCard   DebtType = "credit_card"
	DebtTypeAutoLoan     DebtType = "auto_loan"
	DebtTypeStudentLoan  DebtType = "student_loan"
	DebtTypeMortgage     DebtType = "mortgage"
	DebtTypePersonalLoan DebtType = "personal_loan"
	DebtTypeOther        DebtType = "other"
)

// Valid reports whether the debt type is one of the known tags.
func (t DebtType) Valid() bool {
	switch t {
	case DebtTypeCreditCard, DebtTypeAutoLoan, DebtTypeStudentLoan,
		DebtTypeMortgage, DebtTypePersonalLoan, DebtTypeOther:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Debt is a persisted owed balance. APR is a decimal fraction in [0, 1].
// SortOrder preserves the order debts were entered, which the order_entered
// and no_snowball strategies rely on.
type Debt struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	Type       DebtType        `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	APR        decimal.Decimal `json:"apr"`
	MinPayment decimal.Decimal `json:"min_payment"`
	CustomRank *int            `json:"custom_rank,omitempty"`
	Active     bool            `json:"active"`
	SortOrder  int             `json:"sort_order"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PayoffInput converts the persisted debt into the simulation engine's shape.
func (d Debt) PayoffInput() payoff.Debt {
	return payoff.Debt{
		ID:         d.ID,
		Name:       d.Name,
		Balance:    d.Balance,
		APR:        d.APR,
		MinPayment: d.MinPayment,
		CustomRank: d.CustomRank,
		Active:     d.Active,
	}
}

// Scenario is a saved set of simulation inputs a user can re-run against
// their current debts.
type Scenario struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Title         string          `json:"title"`
	Strategy      payoff.Strategy `json:"strategy"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     time.Time       `json:"start_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
