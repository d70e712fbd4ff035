package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/advice"
	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/payoff"
	"example.com/debt-payoff-planner/internal/repository"
)

type AdviceHandler struct {
	Service *advice.Service
	Debts   *repository.DebtRepository
}

// NewAdviceHandler creates the plan-explanation handler. Service may be nil
// when no provider is configured.
func NewAdviceHandler(service *advice.Service, debts *repository.DebtRepository) *AdviceHandler {
	return &AdviceHandler{Service: service, Debts: debts}
}

type ExplainRequest struct {
	Strategy      string          `json:"strategy" validate:"required"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     string          `json:"start_date" validate:"required"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain runs the payoff engine over the user's active debts and returns a
// plain-language walkthrough of the resulting plan.
func (h *AdviceHandler) Explain(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if h.Service == nil {
		return unavailable(c, "advice is not configured")
	}

	var req ExplainRequest
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

	ctx := c.Request().Context()

	stored, err := h.Debts.ListByUser(ctx, userID, true)
	if err != nil {
		return serverError(c)
	}
	if len(stored) == 0 {
		return badRequest(c, "no active debts to explain")
	}

	debts := toPayoffDebts(stored)
	result := payoff.Simulate(debts, strategy, req.MonthlyBudget, startDate)

	input := advice.ExplainInput{
		Strategy:       string(strategy),
		TotalInterest:  result.TotalInterestPaid,
		MonthsToPayoff: result.MonthsToPayoff,
		PayoffDate:     result.PayoffDate,
		Completed:      simulationCompleted(result),
	}
	total := decimal.Zero
	for _, debt := range debts {
		total = total.Add(debt.Balance)
		input.Debts = append(input.Debts, advice.ExplainDebt{
			Name:    debt.Name,
			Balance: debt.Balance,
			APR:     debt.APR,
		})
	}
	input.TotalDebt = total.Round(2)

	explanation, err := h.Service.ExplainPlan(ctx, input)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ExplainResponse{Explanation: explanation})
}
