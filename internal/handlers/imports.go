package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/debt-payoff-planner/internal/auth"
	"example.com/debt-payoff-planner/internal/models"
	"example.com/debt-payoff-planner/internal/repository"
)

const maxImportRows = 500

type ImportResponse struct {
	Imported int            `json:"imported"`
	Debts    []DebtResponse `json:"debts"`
}

// ImportCSV loads debts from an uploaded CSV file. Columns may appear in any
// order; name, balance, apr and min_payment are required, type and
// custom_rank are optional.
func (h *DebtHandler) ImportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "cannot read uploaded file")
	}
	defer file.Close()

	inputs, errMessage := parseDebtCSV(file)
	if errMessage != "" {
		return badRequest(c, errMessage)
	}

	created, err := h.Debts.CreateBatch(c.Request().Context(), userID, inputs)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "no rows to import")
		}
		return serverError(c)
	}

	for _, debt := range created {
		publishDebtEvent(h.Notifier, userID, "debt_created", debt.ID)
	}

	response := ImportResponse{Imported: len(created), Debts: make([]DebtResponse, 0, len(created))}
	for _, debt := range created {
		response.Debts = append(response.Debts, toDebtResponse(debt))
	}

	return c.JSON(http.StatusCreated, response)
}

func parseDebtCSV(r io.Reader) ([]repository.DebtInput, string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, "empty or unreadable CSV"
	}

	columns, errMessage := mapCSVHeader(header)
	if errMessage != "" {
		return nil, errMessage
	}

	var inputs []repository.DebtInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Sprintf("malformed CSV near line %d", line+1)
		}
		line++

		if len(inputs) >= maxImportRows {
			return nil, fmt.Sprintf("too many rows, limit is %d", maxImportRows)
		}

		input, errMessage := parseDebtRecord(record, columns, line)
		if errMessage != "" {
			return nil, errMessage
		}
		inputs = append(inputs, input)
	}

	if len(inputs) == 0 {
		return nil, "CSV has no data rows"
	}

	return inputs, ""
}

// csvColumns holds the header position of each recognized column, -1 when
// the column is absent.
type csvColumns struct {
	name       int
	debtType   int
	balance    int
	apr        int
	minPayment int
	customRank int
}

func mapCSVHeader(header []string) (csvColumns, string) {
	columns := csvColumns{name: -1, debtType: -1, balance: -1, apr: -1, minPayment: -1, customRank: -1}

	for i, raw := range header {
		switch normalizeCSVColumn(raw) {
		case "name", "debt_name":
			columns.name = i
		case "type", "debt_type":
			columns.debtType = i
		case "balance":
			columns.balance = i
		case "apr", "interest_rate":
			columns.apr = i
		case "min_payment", "minimum_payment":
			columns.minPayment = i
		case "custom_rank", "rank":
			columns.customRank = i
		}
	}

	var missing []string
	if columns.name == -1 {
		missing = append(missing, "name")
	}
	if columns.balance == -1 {
		missing = append(missing, "balance")
	}
	if columns.apr == -1 {
		missing = append(missing, "apr")
	}
	if columns.minPayment == -1 {
		missing = append(missing, "min_payment")
	}
	if len(missing) > 0 {
		return columns, "missing required columns: " + strings.Join(missing, ", ")
	}

	return columns, ""
}

func normalizeCSVColumn(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.TrimPrefix(cleaned, "\ufeff")
	return strings.ReplaceAll(cleaned, " ", "_")
}

func parseDebtRecord(record []string, columns csvColumns, line int) (repository.DebtInput, string) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field(columns.name)
	if name == "" {
		return repository.DebtInput{}, fmt.Sprintf("line %d: name is required", line)
	}

	balance, err := decimal.NewFromString(field(columns.balance))
	if err != nil {
		return repository.DebtInput{}, fmt.Sprintf("line %d: invalid balance", line)
	}

	apr, err := parseAPR(field(columns.apr))
	if err != nil {
		return repository.DebtInput{}, fmt.Sprintf("line %d: invalid apr", line)
	}

	minPayment, err := decimal.NewFromString(field(columns.minPayment))
	if err != nil {
		return repository.DebtInput{}, fmt.Sprintf("line %d: invalid min_payment", line)
	}

	if message := validateDebtAmounts(balance, apr, minPayment); message != "" {
		return repository.DebtInput{}, fmt.Sprintf("line %d: %s", line, message)
	}

	debtType := models.DebtTypeOther
	if raw := field(columns.debtType); raw != "" {
		debtType = models.DebtType(normalizeCSVColumn(raw))
		if !debtType.Valid() {
			return repository.DebtInput{}, fmt.Sprintf("line %d: invalid debt type", line)
		}
	}

	var customRank *int
	if raw := field(columns.customRank); raw != "" {
		rank, err := strconv.Atoi(raw)
		if err != nil {
			return repository.DebtInput{}, fmt.Sprintf("line %d: invalid custom_rank", line)
		}
		customRank = &rank
	}

	return repository.DebtInput{
		Name:       name,
		Type:       debtType,
		Balance:    balance.Round(2),
		APR:        apr,
		MinPayment: minPayment.Round(2),
		CustomRank: customRank,
		Active:     true,
	}, ""
}

// parseAPR accepts a fraction ("0.249"), a percent value ("24.9") or a
// percent with sign ("24.9%") and always returns the fraction form.
func parseAPR(raw string) (decimal.Decimal, error) {
	percent := strings.HasSuffix(raw, "%")
	value, err := decimal.NewFromString(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return decimal.Decimal{}, err
	}

	if percent || value.GreaterThan(decimal.NewFromInt(1)) {
		value = value.Div(decimal.NewFromInt(100))
	}

	return value, nil
}
