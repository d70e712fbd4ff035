package handlers

import (
	"strings"
	"testing"
)

// TestParseDebtCSVBasic checks a well-formed file with all columns.
func TestParseDebtCSVBasic(t *testing.T) {
	csv := strings.Join([]string{
		"name,type,balance,apr,min_payment,custom_rank",
		"Visa,credit_card,5000.00,0.249,150.00,1",
		"Car Loan,auto_loan,12000,0.069,320,",
	}, "\n")

	inputs, errMessage := parseDebtCSV(strings.NewReader(csv))
	if errMessage != "" {
		t.Fatalf("expected success, got %q", errMessage)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(inputs))
	}

	if inputs[0].Name != "Visa" {
		t.Fatalf("unexpected name: %s", inputs[0].Name)
	}
	if inputs[0].APR.String() != "0.249" {
		t.Fatalf("unexpected apr: %s", inputs[0].APR)
	}
	if inputs[0].CustomRank == nil || *inputs[0].CustomRank != 1 {
		t.Fatal("expected custom rank 1")
	}
	if inputs[1].CustomRank != nil {
		t.Fatal("expected empty custom rank to stay nil")
	}
	if !inputs[1].Active {
		t.Fatal("imported debts must be active")
	}
}

// TestParseDebtCSVHeaderOrder checks that columns may appear in any order.
func TestParseDebtCSVHeaderOrder(t *testing.T) {
	csv := strings.Join([]string{
		"min_payment,apr,name,balance",
		"150,0.249,Visa,5000",
	}, "\n")

	inputs, errMessage := parseDebtCSV(strings.NewReader(csv))
	if errMessage != "" {
		t.Fatalf("expected success, got %q", errMessage)
	}
	if inputs[0].Name != "Visa" || inputs[0].Balance.String() != "5000" {
		t.Fatalf("columns mapped incorrectly: %+v", inputs[0])
	}
}

// TestParseDebtCSVMissingColumns checks the error listing missing columns.
func TestParseDebtCSVMissingColumns(t *testing.T) {
	_, errMessage := parseDebtCSV(strings.NewReader("name,balance\nVisa,5000"))
	if !strings.Contains(errMessage, "apr") || !strings.Contains(errMessage, "min_payment") {
		t.Fatalf("expected missing columns in message, got %q", errMessage)
	}
}

// TestParseDebtCSVBadRow checks per-line validation errors.
func TestParseDebtCSVBadRow(t *testing.T) {
	csv := strings.Join([]string{
		"name,balance,apr,min_payment",
		"Visa,5000,0.249,150",
		"Broken,not-a-number,0.1,50",
	}, "\n")

	_, errMessage := parseDebtCSV(strings.NewReader(csv))
	if !strings.Contains(errMessage, "line 3") {
		t.Fatalf("expected line 3 in message, got %q", errMessage)
	}
}

// TestParseDebtCSVEmpty checks that a header-only file is rejected.
func TestParseDebtCSVEmpty(t *testing.T) {
	_, errMessage := parseDebtCSV(strings.NewReader("name,balance,apr,min_payment\n"))
	if errMessage == "" {
		t.Fatal("expected error for file without data rows")
	}
}

// TestParseAPR checks fraction, percent and signed-percent inputs.
func TestParseAPR(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"0.249", "0.249"},
		{"24.9", "0.249"},
		{"24.9%", "0.249"},
		{"0.9%", "0.009"},
	}

	for _, tc := range cases {
		got, err := parseAPR(tc.raw)
		if err != nil {
			t.Fatalf("parseAPR(%q): %v", tc.raw, err)
		}
		if got.String() != tc.want {
			t.Fatalf("parseAPR(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	if _, err := parseAPR("abc"); err == nil {
		t.Fatal("expected error for non-numeric apr")
	}
}

// TestNormalizeCSVColumn checks header cleanup including a BOM prefix.
func TestNormalizeCSVColumn(t *testing.T) {
	if got := normalizeCSVColumn("\ufeffName"); got != "name" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := normalizeCSVColumn(" Min Payment "); got != "min_payment" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
