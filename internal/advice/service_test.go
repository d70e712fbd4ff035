package advice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type stubClient struct {
	reply string
	err   error
	last  []Message
}

func (s *stubClient) Chat(_ context.Context, messages []Message) (string, error) {
	s.last = messages
	return s.reply, s.err
}

// TestExplainPlanPrompt checks that the prompt carries the plan figures and
// the reply is trimmed.
func TestExplainPlanPrompt(t *testing.T) {
	client := &stubClient{reply: "  Pay the card first.  "}
	service := NewService(client)

	got, err := service.ExplainPlan(context.Background(), ExplainInput{
		Strategy:       "highest_apr",
		TotalDebt:      decimal.NewFromInt(5000),
		TotalInterest:  decimal.NewFromFloat(312.45),
		MonthsToPayoff: 14,
		PayoffDate:     time.Date(2027, time.March, 15, 0, 0, 0, 0, time.UTC),
		Completed:      true,
		Debts: []ExplainDebt{
			{Name: "Visa", Balance: decimal.NewFromInt(2000), APR: decimal.NewFromFloat(0.249)},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "Pay the card first." {
		t.Fatalf("unexpected explanation %q", got)
	}

	if len(client.last) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(client.last))
	}
	prompt := client.last[1].Content
	for _, want := range []string{"highest_apr", "312.45", "Visa", "24.90%", "2027-03-15"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
}

// TestExplainPlanEmptyReply checks the empty-completion error path.
func TestExplainPlanEmptyReply(t *testing.T) {
	service := NewService(&stubClient{reply: "   "})

	if _, err := service.ExplainPlan(context.Background(), ExplainInput{}); err == nil {
		t.Fatal("expected error for empty explanation")
	}
}
