package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	client Client
}

// NewService creates the plan-explanation service.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// ExplainInput summarizes a computed payoff plan for the prompt.
type ExplainInput struct {
	Strategy       string
	TotalDebt      decimal.Decimal
	TotalInterest  decimal.Decimal
	MonthsToPayoff int
	PayoffDate     time.Time
	Completed      bool
	Debts          []ExplainDebt
}

type ExplainDebt struct {
	Name    string
	Balance decimal.Decimal
	APR     decimal.Decimal
}

// ExplainPlan asks the model for a short plain-language walkthrough of the
// payoff plan.
func (s *Service) ExplainPlan(ctx context.Context, input ExplainInput) (string, error) {
	prompt := buildExplainPrompt(input)

	messages := []Message{
		{Role: "system", Content: "You are a personal finance assistant. Answer in plain prose, no markdown, at most three short paragraphs. Never invent numbers that are not in the data."},
		{Role: "user", Content: prompt},
	}

	content, err := s.client.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	explanation := strings.TrimSpace(content)
	if explanation == "" {
		return "", errors.New("empty explanation")
	}

	return explanation, nil
}

func buildExplainPrompt(input ExplainInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Explain this debt payoff plan to the user.\n\n")
	fmt.Fprintf(&b, "Strategy: %s\n", input.Strategy)
	fmt.Fprintf(&b, "Total debt: %s\n", input.TotalDebt.StringFixed(2))
	fmt.Fprintf(&b, "Total interest over the plan: %s\n", input.TotalInterest.StringFixed(2))
	if input.Completed {
		fmt.Fprintf(&b, "Months until debt free: %d (debt free on %s)\n", input.MonthsToPayoff, input.PayoffDate.Format("2006-01-02"))
	} else {
		fmt.Fprintf(&b, "The plan does not pay everything off within %d months; balances remain at the horizon.\n", input.MonthsToPayoff)
	}

	b.WriteString("Debts:\n")
	for _, d := range input.Debts {
		fmt.Fprintf(&b, "- %s: balance %s, APR %s%%\n",
			d.Name, d.Balance.StringFixed(2), d.APR.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}

	b.WriteString("\nDescribe why the strategy orders the debts the way it does and what the user should expect.")
	return b.String()
}
