package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/payoff"
	"example.com/debt-payoff-planner/internal/repository"
)

const (
	exportTypeSchedule = "schedule"
	exportTypeSummary  = "summary"
)

// ExportJSON runs a scenario and downloads the full result as a JSON file.
func (h *ScenarioHandler) ExportJSON(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	response, scenarioTitle, err := h.runForExport(c, userID, scenarioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	filename := exportFilename(scenarioTitle, scenarioID, "json")
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, response)
}

// ExportCSV runs a scenario and downloads the schedule as a CSV file. The
// type query switches between the per-debt schedule and the month summary.
func (h *ScenarioHandler) ExportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid scenario id")
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeSchedule
	}

	response, scenarioTitle, err := h.runForExport(c, userID, scenarioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "scenario not found")
		}
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeSchedule:
		err = writeScheduleCSV(writer, response)
	case exportTypeSummary:
		err = writeSummaryCSV(writer, response)
	default:
		return badRequest(c, "invalid export type")
	}
	if err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := exportFilename(scenarioTitle, scenarioID, exportType+".csv")
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ScenarioHandler) runForExport(c echo.Context, userID, scenarioID uuid.UUID) (SimulationResponse, string, error) {
	ctx := c.Request().Context()

	scenario, err := h.Scenarios.GetByID(ctx, userID, scenarioID)
	if err != nil {
		return SimulationResponse{}, "", err
	}

	stored, err := h.Debts.ListByUser(ctx, userID, true)
	if err != nil {
		return SimulationResponse{}, "", err
	}

	debts := toPayoffDebts(stored)
	result := payoff.Simulate(debts, scenario.Strategy, scenario.MonthlyBudget, scenario.StartDate)
	check := payoff.ValidateBudget(scenario.MonthlyBudget, debts)

	return toSimulationResponse(scenario.Strategy, scenario.MonthlyBudget, scenario.StartDate, result, check), scenario.Title, nil
}

func writeScheduleCSV(writer *csv.Writer, response SimulationResponse) error {
	header := []string{
		"month",
		"date",
		"debt_id",
		"debt_name",
		"starting_balance",
		"interest",
		"payment",
		"ending_balance",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range response.Schedule {
		for _, debt := range row.Debts {
			record := []string{
				formatInt(row.Month),
				row.Date,
				debt.DebtID.String(),
				debt.Name,
				formatMoney(debt.StartingBalance),
				formatMoney(debt.Interest),
				formatMoney(debt.Payment),
				formatMoney(debt.EndingBalance),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeSummaryCSV(writer *csv.Writer, response SimulationResponse) error {
	header := []string{
		"month",
		"date",
		"total_payment",
		"total_baseline",
		"total_snowball",
		"remaining_balance",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range response.Schedule {
		record := []string{
			formatInt(row.Month),
			row.Date,
			formatMoney(row.TotalPayment),
			formatMoney(row.TotalBaseline),
			formatMoney(row.TotalSnowball),
			formatMoney(row.RemainingBalance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// exportFilename slugs the scenario title, falling back to the id when the
// title has no usable characters.
func exportFilename(title string, id uuid.UUID, suffix string) string {
	slug := slugify(title)
	if slug == "" {
		slug = id.String()
	}
	return "scenario-" + slug + "." + suffix
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatMoney(value decimal.Decimal) string {
	return value.StringFixed(2)
}
