// Package agent asks a language model to critique the portfolio.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/wealth"
	"github.com/rs/zerolog"
)

// DefaultModel is the Gemini model used by the advisor.
const DefaultModel = "gemini-2.5-flash"

// Generator generates text from a system instruction and a prompt.
type Generator interface {
	Generate(ctx context.Context, model, system, prompt string) (string, error)
}

// Advisor is a value investor reviewing the portfolio.
type Advisor struct {
	Name      string
	ModelName string
	Persona   string // system instruction
	Generator Generator
	Log       zerolog.Logger
}

// ErrNoAnswer is returned when the model answered with no text.
var ErrNoAnswer = errors.New("the advisor has no answer")

const valueInvestor = `
You are Warren Buffett, the legendary value investor.
Character: calm, long term minded, you hate unnecessary risks and love businesses with a strong moat.
Task: critique the portfolio you are shown, directly and concisely.

What you must do:
1. Analyse the diversification.
2. Warn about speculative stocks or sectors that are too risky.
3. Grade the portfolio from A to F.
4. Close with a Warren Buffett quote that fits the situation.

Answer in markdown.
`

// NewAdvisor returns the value investor advisor backed by gen.
func NewAdvisor(gen Generator) *Advisor {
	return &Advisor{
		Name:      "Warren Buffett",
		ModelName: DefaultModel,
		Persona:   valueInvestor,
		Generator: gen,
		Log:       zerolog.Nop(),
	}
}

// Review asks the advisor to critique the portfolio described by prompt
// and returns its markdown answer.
func (a *Advisor) Review(ctx context.Context, prompt string) (string, error) {
	a.Log.Debug().Str("advisor", a.Name).Str("model", a.ModelName).Int("prompt_bytes", len(prompt)).Msg("asking for a review")
	text, err := a.Generator.Generate(ctx, a.ModelName, a.Persona,
		"Here is my investment portfolio, please critique it:\n\n"+prompt)
	if err != nil {
		return "", fmt.Errorf("advisor %s: %w", a.Name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("advisor %s: %w", a.Name, ErrNoAnswer)
	}
	return text, nil
}

// PortfolioPrompt describes the holdings and their allocation for the advisor.
func PortfolioPrompt(holdings []wealth.Holding, allocations []wealth.Allocation, currency string) string {
	var b strings.Builder
	s := wealth.Summarize(holdings)
	fmt.Fprintf(&b, "Total invested: %s, current value: %s, profit: %s",
		wealth.FormatMoney(s.Invest, currency), wealth.FormatMoney(s.Value, currency), wealth.FormatMoney(s.Profit(), currency))
	if p, err := s.ProfitPercent(); err == nil {
		fmt.Fprintf(&b, " (%s)", p.SignedString())
	}
	b.WriteString("\n\nAllocation by type:\n")
	for _, a := range allocations {
		fmt.Fprintf(&b, "- %s: %s of the portfolio, %d holdings", a.Type, a.Portion, a.Count)
		if a.HasTarget() {
			fmt.Fprintf(&b, ", target %s", a.Target)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nHoldings:\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "- %s (%s): invested %s, value %s", h.Name, h.Type,
			wealth.FormatMoney(h.Invest, currency), wealth.FormatMoney(h.Value, currency))
		if p, err := h.GainPercent(); err == nil {
			fmt.Fprintf(&b, ", %s", p.SignedString())
		}
		b.WriteString("\n")
	}
	return b.String()
}
