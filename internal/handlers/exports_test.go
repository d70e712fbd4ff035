package handlers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestSlugify checks filename slug generation.
func TestSlugify(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Aggressive Payoff", "aggressive-payoff"},
		{"Plan #2 (2026)", "plan-2-2026"},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := slugify(tc.raw); got != tc.want {
			t.Fatalf("slugify(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

// TestExportFilename checks the id fallback for unusable titles.
func TestExportFilename(t *testing.T) {
	id := uuid.New()

	if got := exportFilename("My Plan", id, "json"); got != "scenario-my-plan.json" {
		t.Fatalf("unexpected filename: %s", got)
	}
	if got := exportFilename("***", id, "schedule.csv"); got != "scenario-"+id.String()+".schedule.csv" {
		t.Fatalf("unexpected fallback filename: %s", got)
	}
}

// TestWriteSummaryCSV checks the month-summary layout.
func TestWriteSummaryCSV(t *testing.T) {
	response := SimulationResponse{
		Schedule: []ScheduleRowResponse{{
			Month:            1,
			Date:             "2026-02-15",
			TotalPayment:     decimal.NewFromFloat(470),
			TotalBaseline:    decimal.NewFromFloat(470),
			TotalSnowball:    decimal.Zero,
			RemainingBalance: decimal.NewFromFloat(16628.75),
		}},
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeSummaryCSV(writer, response); err != nil {
		t.Fatalf("writeSummaryCSV: %v", err)
	}
	writer.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if lines[0] != "month,date,total_payment,total_baseline,total_snowball,remaining_balance" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "1,2026-02-15,470.00,470.00,0.00,16628.75" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}
