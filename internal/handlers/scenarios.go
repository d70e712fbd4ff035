package handlers

import (
	"errors"
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

const maxScenarioTitleLen = 200

type ScenarioHandler struct {
	Scenarios *repository.ScenarioRepository
	Debts     *repository.DebtRepository
	Notifier  *notifications.Hub
}

// NewScenarioHandler creates the scenario handler.
func NewScenarioHandler(scenarios *repository.ScenarioRepository, debts *repository.DebtRepository, notifier *notifications.Hub) *ScenarioHandler {
	return &ScenarioHandler{Scenarios: scenarios, Debts: debts, Notifier: notifier}
}

type ScenarioRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Strategy      string          `json:"strategy" validate:"required"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     string          `json:"start_date" validate:"required"`
}

type ScenarioResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Strategy      payoff.Strategy `json:"strategy"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     string          `json:"start_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// List returns the user's scenarios, newest first.
func (h *ScenarioHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	scenarios, err := h.Scenarios.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]ScenarioResponse, 0, len(scenarios))
	for _, s := range scenarios {
		response = append(response, toScenarioResponse(s))
	}

	return c.JSON(http.StatusOK, response)
}

// Create stores a new scenario.
func (h *ScenarioHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, errMessage := bindScenarioInput(c)
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	scenario, err := h.Scenarios.Create(c.Request().Context(), userID, input)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toScenarioResponse(scenario))
}

// Get returns a single scenario.
func (h *ScenarioHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	scenario, err := h.Scenarios.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toScenarioResponse(scenario))
}

// Update replaces an existing scenario.
func (h *ScenarioHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	input, errMessage := bindScenarioInput(c)
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	scenario, err := h.Scenarios.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toScenarioResponse(scenario))
}

// Delete removes a scenario.
func (h *ScenarioHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	if err := h.Scenarios.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Duplicate copies a scenario under a "Copy of" title.
func (h *ScenarioHandler) Duplicate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	scenario, err := h.Scenarios.Duplicate(c.Request().Context(), userID, id, maxScenarioTitleLen)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toScenarioResponse(scenario))
}

// Run executes a stored scenario against the user's current active debts.
func (h *ScenarioHandler) Run(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	ctx := c.Request().Context()

	scenario, err := h.Scenarios.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	stored, err := h.Debts.ListByUser(ctx, userID, true)
	if err != nil {
		return serverError(c)
	}

	debts := toPayoffDebts(stored)
	result := payoff.Simulate(debts, scenario.Strategy, scenario.MonthlyBudget, scenario.StartDate)
	check := payoff.ValidateBudget(scenario.MonthlyBudget, debts)

	response := toSimulationResponse(scenario.Strategy, scenario.MonthlyBudget, scenario.StartDate, result, check)
	publishSimulationEvent(h.Notifier, userID, response)

	return c.JSON(http.StatusOK, response)
}

func bindScenarioInput(c echo.Context) (repository.ScenarioInput, string) {
	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return repository.ScenarioInput{}, "invalid payload"
	}
	if err := c.Validate(&req); err != nil {
		return repository.ScenarioInput{}, "validation failed"
	}

	strategy, ok := resolveStrategy(req.Strategy)
	if !ok {
		return repository.ScenarioInput{}, "invalid strategy"
	}

	if req.MonthlyBudget.IsNegative() {
		return repository.ScenarioInput{}, "monthly_budget must not be negative"
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return repository.ScenarioInput{}, "invalid start_date, expected YYYY-MM-DD"
	}

	return repository.ScenarioInput{
		Title:         req.Title,
		Strategy:      strategy,
		MonthlyBudget: req.MonthlyBudget.Round(2),
		StartDate:     startDate,
	}, ""
}

func toScenarioResponse(scenario models.Scenario) ScenarioResponse {
	return ScenarioResponse{
		ID:            scenario.ID,
		Title:         scenario.Title,
		Strategy:      scenario.Strategy,
		MonthlyBudget: scenario.MonthlyBudget,
		StartDate:     scenario.StartDate.Format(dateLayout),
		CreatedAt:     scenario.CreatedAt,
		UpdatedAt:     scenario.UpdatedAt,
	}
}
