package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/models"
	"example.com/debt-payoff-planner/internal/notifications"
	"example.com/debt-payoff-planner/internal/payoff"
	"example.com/debt-payoff-planner/internal/repository"
)

const dateLayout = "2006-01-02"

type SimulationHandler struct {
	Debts    *repository.DebtRepository
	Notifier *notifications.Hub
}

// NewSimulationHandler creates the ad-hoc simulation handler.
func NewSimulationHandler(debts *repository.DebtRepository, notifier *notifications.Hub) *SimulationHandler {
	return &SimulationHandler{Debts: debts, Notifier: notifier}
}

type SimulateRequest struct {
	Strategy      string          `json:"strategy" validate:"required"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     string          `json:"start_date" validate:"required"`
	Debts         []SimulateDebt  `json:"debts" validate:"omitempty,dive"`
}

// SimulateDebt is an inline debt for what-if runs that bypass the stored
// set. A missing id gets a fresh one so schedule rows stay addressable.
type SimulateDebt struct {
	ID         *uuid.UUID      `json:"id"`
	Name       string          `json:"name" validate:"required,max=200"`
	Balance    decimal.Decimal `json:"balance"`
	APR        decimal.Decimal `json:"apr"`
	MinPayment decimal.Decimal `json:"min_payment"`
	CustomRank *int            `json:"custom_rank"`
}

type ValidateBudgetRequest struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	Debts         []SimulateDebt  `json:"debts" validate:"omitempty,dive"`
}

type BudgetCheckResponse struct {
	Valid           bool            `json:"valid"`
	Message         string          `json:"message,omitempty"`
	InitialSnowball decimal.Decimal `json:"initial_snowball"`
}

type ScheduleDebtResponse struct {
	DebtID          uuid.UUID       `json:"debt_id"`
	Name            string          `json:"name"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Interest        decimal.Decimal `json:"interest"`
	Payment         decimal.Decimal `json:"payment"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
}

type ScheduleRowResponse struct {
	Month            int                    `json:"month"`
	Date             string                 `json:"date"`
	TotalPayment     decimal.Decimal        `json:"total_payment"`
	TotalBaseline    decimal.Decimal        `json:"total_baseline"`
	TotalSnowball    decimal.Decimal        `json:"total_snowball"`
	RemainingBalance decimal.Decimal        `json:"remaining_balance"`
	Debts            []ScheduleDebtResponse `json:"debts"`
}

type SimulationResponse struct {
	Strategy          payoff.Strategy       `json:"strategy"`
	MonthlyBudget     decimal.Decimal       `json:"monthly_budget"`
	StartDate         string                `json:"start_date"`
	MonthsToPayoff    int                   `json:"months_to_payoff"`
	PayoffDate        string                `json:"payoff_date"`
	TotalInterestPaid decimal.Decimal       `json:"total_interest_paid"`
	Completed         bool                  `json:"completed"`
	Budget            BudgetCheckResponse   `json:"budget"`
	PayoffOrder       []uuid.UUID           `json:"payoff_order"`
	DebtPayoffDates   map[string]string     `json:"debt_payoff_dates"`
	Schedule          []ScheduleRowResponse `json:"schedule"`
}

// Simulate runs the payoff engine against inline debts or, when none are
// given, the user's stored active debts.
func (h *SimulationHandler) Simulate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	strategy, ok := resolveStrategy(req.Strategy)
	if !ok {
		return badRequest(c, "invalid strategy")
	}

	if req.MonthlyBudget.IsNegative() {
		return badRequest(c, "monthly_budget must not be negative")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return badRequest(c, "invalid start_date, expected YYYY-MM-DD")
	}

	debts, errMessage, err := h.resolveDebts(c, userID, req.Debts)
	if err != nil {
		return serverError(c)
	}
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	result := payoff.Simulate(debts, strategy, req.MonthlyBudget, startDate)
	check := payoff.ValidateBudget(req.MonthlyBudget, debts)

	response := toSimulationResponse(strategy, req.MonthlyBudget, startDate, result, check)
	publishSimulationEvent(h.Notifier, userID, response)

	return c.JSON(http.StatusOK, response)
}

// ValidateBudget exposes the advisory budget check without running the
// simulation.
func (h *SimulationHandler) ValidateBudget(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ValidateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	if req.MonthlyBudget.IsNegative() {
		return badRequest(c, "monthly_budget must not be negative")
	}

	debts, errMessage, err := h.resolveDebts(c, userID, req.Debts)
	if err != nil {
		return serverError(c)
	}
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	check := payoff.ValidateBudget(req.MonthlyBudget, debts)
	return c.JSON(http.StatusOK, toBudgetCheckResponse(check))
}

func (h *SimulationHandler) resolveDebts(c echo.Context, userID uuid.UUID, inline []SimulateDebt) ([]payoff.Debt, string, error) {
	if len(inline) > 0 {
		debts, errMessage := convertInlineDebts(inline)
		return debts, errMessage, nil
	}

	stored, err := h.Debts.ListByUser(c.Request().Context(), userID, true)
	if err != nil {
		return nil, "", err
	}

	return toPayoffDebts(stored), "", nil
}

func convertInlineDebts(inline []SimulateDebt) ([]payoff.Debt, string) {
	debts := make([]payoff.Debt, 0, len(inline))
	for _, d := range inline {
		if message := validateDebtAmounts(d.Balance, d.APR, d.MinPayment); message != "" {
			return nil, message
		}

		id := uuid.New()
		if d.ID != nil {
			id = *d.ID
		}

		debts = append(debts, payoff.Debt{
			ID:         id,
			Name:       d.Name,
			Balance:    d.Balance.Round(2),
			APR:        d.APR,
			MinPayment: d.MinPayment.Round(2),
			CustomRank: d.CustomRank,
			Active:     true,
		})
	}
	return debts, ""
}

func toPayoffDebts(stored []models.Debt) []payoff.Debt {
	debts := make([]payoff.Debt, 0, len(stored))
	for _, d := range stored {
		debts = append(debts, d.PayoffInput())
	}
	return debts
}

// resolveStrategy maps a request strategy to the engine enum, accepting the
// common snowball/avalanche names as aliases.
func resolveStrategy(raw string) (payoff.Strategy, bool) {
	switch payoff.Strategy(raw) {
	case "snowball":
		return payoff.StrategyLowestBalance, true
	case "avalanche":
		return payoff.StrategyHighestAPR, true
	}

	strategy := payoff.Strategy(raw)
	return strategy, strategy.Valid()
}

func toSimulationResponse(strategy payoff.Strategy, budget decimal.Decimal, startDate time.Time, result payoff.CalculationResult, check payoff.BudgetCheck) SimulationResponse {
	schedule := make([]ScheduleRowResponse, 0, len(result.Rows))
	for _, row := range result.Rows {
		debts := make([]ScheduleDebtResponse, 0, len(row.Debts))
		for _, detail := range row.Debts {
			debts = append(debts, ScheduleDebtResponse{
				DebtID:          detail.DebtID,
				Name:            detail.Name,
				StartingBalance: detail.StartingBalance,
				Interest:        detail.Interest,
				Payment:         detail.Payment,
				EndingBalance:   detail.EndingBalance,
			})
		}
		schedule = append(schedule, ScheduleRowResponse{
			Month:            row.Month,
			Date:             row.Date.Format(dateLayout),
			TotalPayment:     row.TotalPayment,
			TotalBaseline:    row.TotalBaseline,
			TotalSnowball:    row.TotalSnowball,
			RemainingBalance: row.RemainingBalance,
			Debts:            debts,
		})
	}

	payoffDates := make(map[string]string, len(result.DebtPayoffDates))
	for id, date := range result.DebtPayoffDates {
		payoffDates[id.String()] = date.Format(dateLayout)
	}

	return SimulationResponse{
		Strategy:          strategy,
		MonthlyBudget:     budget,
		StartDate:         startDate.Format(dateLayout),
		MonthsToPayoff:    result.MonthsToPayoff,
		PayoffDate:        result.PayoffDate.Format(dateLayout),
		TotalInterestPaid: result.TotalInterestPaid.Round(2),
		Completed:         simulationCompleted(result),
		Budget:            toBudgetCheckResponse(check),
		PayoffOrder:       result.PayoffOrder,
		DebtPayoffDates:   payoffDates,
		Schedule:          schedule,
	}
}

// simulationCompleted derives convergence from the schedule itself: an empty
// schedule had nothing to pay off, otherwise the final row must carry no
// remaining balance.
func simulationCompleted(result payoff.CalculationResult) bool {
	if len(result.Rows) == 0 {
		return true
	}
	return result.Rows[len(result.Rows)-1].RemainingBalance.IsZero()
}

func toBudgetCheckResponse(check payoff.BudgetCheck) BudgetCheckResponse {
	return BudgetCheckResponse{
		Valid:           check.Valid,
		Message:         check.Message,
		InitialSnowball: check.InitialSnowball,
	}
}

func publishSimulationEvent(hub *notifications.Hub, userID uuid.UUID, response SimulationResponse) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: "simulation_completed",
		Data: map[string]interface{}{
			"strategy":         string(response.Strategy),
			"months_to_payoff": response.MonthsToPayoff,
			"payoff_date":      response.PayoffDate,
			"completed":        response.Completed,
		},
	})
}
