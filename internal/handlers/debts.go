package handlers

import (
	"errors"
	"net/http"
	"strings"
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

type DebtHandler struct {
	Debts    *repository.DebtRepository
	Notifier *notifications.Hub
}

// NewDebtHandler creates the debt CRUD handler.
func NewDebtHandler(debts *repository.DebtRepository, notifier *notifications.Hub) *DebtHandler {
	return &DebtHandler{Debts: debts, Notifier: notifier}
}

type DebtRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Type       string          `json:"type" validate:"required"`
	Balance    decimal.Decimal `json:"balance"`
	APR        decimal.Decimal `json:"apr"`
	MinPayment decimal.Decimal `json:"min_payment"`
	CustomRank *int            `json:"custom_rank"`
	Active     *bool           `json:"active"`
}

type DebtResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Type             models.DebtType `json:"type"`
	Balance          decimal.Decimal `json:"balance"`
	APR              decimal.Decimal `json:"apr"`
	MinPayment       decimal.Decimal `json:"min_payment"`
	CustomRank       *int            `json:"custom_rank,omitempty"`
	Active           bool            `json:"active"`
	SortOrder        int             `json:"sort_order"`
	InterestOnlyRisk bool            `json:"interest_only_risk"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// List returns the user's debts in entry order.
func (h *DebtHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	includeArchived := strings.EqualFold(c.QueryParam("include_archived"), "true")

	debts, err := h.Debts.ListByUser(c.Request().Context(), userID, !includeArchived)
	if err != nil {
		return serverError(c)
	}

	response := make([]DebtResponse, 0, len(debts))
	for _, debt := range debts {
		response = append(response, toDebtResponse(debt))
	}

	return c.JSON(http.StatusOK, map[string][]DebtResponse{"debts": response})
}

// Create adds a debt for the user.
func (h *DebtHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, errMessage := bindDebtInput(c)
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	debt, err := h.Debts.Create(c.Request().Context(), userID, input)
	if err != nil {
		return serverError(c)
	}

	publishDebtEvent(h.Notifier, userID, "debt_created", debt.ID)
	return c.JSON(http.StatusCreated, toDebtResponse(debt))
}

// Get returns one debt.
func (h *DebtHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	debt, err := h.Debts.GetByID(c.Request().Context(), userID, debtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// Update replaces a debt's fields.
func (h *DebtHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	input, errMessage := bindDebtInput(c)
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	debt, err := h.Debts.Update(c.Request().Context(), userID, debtID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	publishDebtEvent(h.Notifier, userID, "debt_updated", debt.ID)
	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// Archive deactivates a debt, keeping its record.
func (h *DebtHandler) Archive(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	if err := h.Debts.Archive(c.Request().Context(), userID, debtID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	publishDebtEvent(h.Notifier, userID, "debt_archived", debtID)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a debt permanently.
func (h *DebtHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	debtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	if err := h.Debts.Delete(c.Request().Context(), userID, debtID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	publishDebtEvent(h.Notifier, userID, "debt_deleted", debtID)
	return c.NoContent(http.StatusNoContent)
}

func bindDebtInput(c echo.Context) (repository.DebtInput, string) {
	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return repository.DebtInput{}, "invalid payload"
	}
	if err := c.Validate(&req); err != nil {
		return repository.DebtInput{}, "validation failed"
	}

	debtType := models.DebtType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !debtType.Valid() {
		return repository.DebtInput{}, "invalid debt type"
	}

	if message := validateDebtAmounts(req.Balance, req.APR, req.MinPayment); message != "" {
		return repository.DebtInput{}, message
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return repository.DebtInput{
		Name:       strings.TrimSpace(req.Name),
		Type:       debtType,
		Balance:    req.Balance.Round(2),
		APR:        req.APR,
		MinPayment: req.MinPayment.Round(2),
		CustomRank: req.CustomRank,
		Active:     active,
	}, ""
}

// validateDebtAmounts guards the numeric ranges the simulation relies on:
// non-negative money, APR as a fraction within [0, 1].
func validateDebtAmounts(balance, apr, minPayment decimal.Decimal) string {
	if balance.IsNegative() {
		return "balance must not be negative"
	}
	if apr.IsNegative() || apr.GreaterThan(decimal.NewFromInt(1)) {
		return "apr must be a fraction between 0 and 1"
	}
	if minPayment.IsNegative() {
		return "min_payment must not be negative"
	}
	return ""
}

func toDebtResponse(debt models.Debt) DebtResponse {
	return DebtResponse{
		ID:               debt.ID,
		Name:             debt.Name,
		Type:             debt.Type,
		Balance:          debt.Balance,
		APR:              debt.APR,
		MinPayment:       debt.MinPayment,
		CustomRank:       debt.CustomRank,
		Active:           debt.Active,
		SortOrder:        debt.SortOrder,
		InterestOnlyRisk: payoff.IsInterestOnlyRisk(debt.PayoffInput()),
		CreatedAt:        debt.CreatedAt,
		UpdatedAt:        debt.UpdatedAt,
	}
}

func publishDebtEvent(hub *notifications.Hub, userID uuid.UUID, eventType string, debtID uuid.UUID) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: eventType,
		Data: map[string]interface{}{"debt_id": debtID.String()},
	})
}
