package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/models"
	"example.com/debt-payoff-planner/internal/payoff"
	"example.com/debt-payoff-planner/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
	Debts *repository.DebtRepository
}

// NewStatsHandler creates the statistics handler.
func NewStatsHandler(stats *repository.StatsRepository, debts *repository.DebtRepository) *StatsHandler {
	return &StatsHandler{Stats: stats, Debts: debts}
}

type OverviewResponse struct {
	TotalDebts       int             `json:"total_debts"`
	ActiveDebts      int             `json:"active_debts"`
	ArchivedDebts    int             `json:"archived_debts"`
	AtRiskDebts      int             `json:"at_risk_debts"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalMinPayments decimal.Decimal `json:"total_min_payments"`
	Scenarios        int             `json:"scenarios"`
}

type TypeBreakdownResponse struct {
	Type       models.DebtType `json:"type"`
	Count      int             `json:"count"`
	Balance    decimal.Decimal `json:"balance"`
	MinPayment decimal.Decimal `json:"min_payment"`
}

// Overview returns aggregate figures plus the number of debts whose minimum
// payment does not cover a month of interest.
func (h *StatsHandler) Overview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()

	stats, err := h.Stats.Overview(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	active, err := h.Debts.ListByUser(ctx, userID, true)
	if err != nil {
		return serverError(c)
	}

	atRisk := 0
	for _, debt := range active {
		if payoff.IsInterestOnlyRisk(debt.PayoffInput()) {
			atRisk++
		}
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalDebts:       stats.TotalDebts,
		ActiveDebts:      stats.ActiveDebts,
		ArchivedDebts:    stats.ArchivedDebts,
		AtRiskDebts:      atRisk,
		TotalBalance:     stats.TotalBalance,
		TotalMinPayments: stats.TotalMinPayments,
		Scenarios:        stats.Scenarios,
	})
}

// Breakdown returns active balances grouped by debt type.
func (h *StatsHandler) Breakdown(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	breakdown, err := h.Stats.BreakdownByType(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]TypeBreakdownResponse, 0, len(breakdown))
	for _, entry := range breakdown {
		response = append(response, TypeBreakdownResponse{
			Type:       entry.Type,
			Count:      entry.Count,
			Balance:    entry.Balance,
			MinPayment: entry.MinPayment,
		})
	}

	return c.JSON(http.StatusOK, response)
}
